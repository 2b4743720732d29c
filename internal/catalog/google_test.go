package catalog

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"bookstock/internal/platform/googlebooks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockGoogleClient struct {
	mock.Mock
}

func (m *mockGoogleClient) VolumesByISBN(ctx context.Context, isbn string) (*googlebooks.VolumesResponse, error) {
	args := m.Called(ctx, isbn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*googlebooks.VolumesResponse), args.Error(1)
}

func TestGoogleBooks_Lookup(t *testing.T) {
	ctx := context.Background()

	t.Run("maps first volume", func(t *testing.T) {
		client := new(mockGoogleClient)
		client.On("VolumesByISBN", ctx, "9789750719387").Return(&googlebooks.VolumesResponse{
			TotalItems: 2,
			Items: []googlebooks.Volume{
				{VolumeInfo: googlebooks.VolumeInfo{
					Title:         "Yüzüklerin Efendisi",
					Authors:       []string{"J. R. R. Tolkien"},
					Publisher:     "Metis",
					PublishedDate: "2002",
					Description:   "Orta Dünya",
					PageCount:     1200,
					ImageLinks:    &googlebooks.ImageLinks{Thumbnail: "http://img/thumb"},
				}},
				{VolumeInfo: googlebooks.VolumeInfo{Title: "second"}},
			},
		}, nil)

		m, err := NewGoogleBooks(client).Lookup(ctx, "9789750719387")
		require.NoError(t, err)
		assert.Equal(t, "Yüzüklerin Efendisi", m.Title)
		assert.Equal(t, "yuzuklerin-efendisi", m.Slug)
		assert.Equal(t, []string{"J. R. R. Tolkien"}, m.Authors)
		assert.Equal(t, "Metis", m.Publisher)
		assert.Equal(t, 1200, m.PageCount)
		require.NotNil(t, m.Thumbnail)
		assert.Equal(t, "http://img/thumb", *m.Thumbnail)
		client.AssertExpectations(t)
	})

	t.Run("defaults missing fields", func(t *testing.T) {
		client := new(mockGoogleClient)
		client.On("VolumesByISBN", ctx, "1").Return(&googlebooks.VolumesResponse{
			Items: []googlebooks.Volume{{VolumeInfo: googlebooks.VolumeInfo{Title: "Bare"}}},
		}, nil)

		m, err := NewGoogleBooks(client).Lookup(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, DefaultPublisher, m.Publisher)
		assert.Equal(t, DefaultPublishedDate, m.PublishedDate)
		assert.Equal(t, DefaultDescription, m.Description)
		assert.Equal(t, 0, m.PageCount)
		assert.Nil(t, m.Thumbnail)
		assert.NotNil(t, m.Authors)
		assert.Empty(t, m.Authors)
	})

	t.Run("no items is a miss", func(t *testing.T) {
		client := new(mockGoogleClient)
		client.On("VolumesByISBN", ctx, "1").Return(&googlebooks.VolumesResponse{TotalItems: 0}, nil)

		_, err := NewGoogleBooks(client).Lookup(ctx, "1")
		assert.ErrorIs(t, err, ErrNoMatch)
	})

	t.Run("untitled volume is a miss", func(t *testing.T) {
		client := new(mockGoogleClient)
		client.On("VolumesByISBN", ctx, "1").Return(&googlebooks.VolumesResponse{
			Items: []googlebooks.Volume{{VolumeInfo: googlebooks.VolumeInfo{Publisher: "Metis"}}},
		}, nil)

		_, err := NewGoogleBooks(client).Lookup(ctx, "1")
		assert.ErrorIs(t, err, ErrNoMatch)
	})

	t.Run("denied request is a miss", func(t *testing.T) {
		client := new(mockGoogleClient)
		client.On("VolumesByISBN", ctx, "1").Return(nil, &googlebooks.StatusError{StatusCode: http.StatusForbidden})

		_, err := NewGoogleBooks(client).Lookup(ctx, "1")
		assert.ErrorIs(t, err, ErrNoMatch)
	})

	t.Run("rate limit is a failure", func(t *testing.T) {
		client := new(mockGoogleClient)
		client.On("VolumesByISBN", ctx, "1").Return(nil, &googlebooks.StatusError{StatusCode: http.StatusTooManyRequests})

		_, err := NewGoogleBooks(client).Lookup(ctx, "1")
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrNoMatch))
	})

	t.Run("transport failure is not a miss", func(t *testing.T) {
		client := new(mockGoogleClient)
		client.On("VolumesByISBN", ctx, "1").Return(nil, errors.New("connection reset"))

		_, err := NewGoogleBooks(client).Lookup(ctx, "1")
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrNoMatch))
	})
}
