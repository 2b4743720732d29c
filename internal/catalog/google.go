package catalog

import (
	"context"
	"errors"
	"fmt"

	"bookstock/internal/platform/googlebooks"
)

type GoogleBooksClient interface {
	VolumesByISBN(ctx context.Context, isbn string) (*googlebooks.VolumesResponse, error)
}

// GoogleBooks looks ISBNs up in the Google Books volumes API and uses the
// first volume returned.
type GoogleBooks struct {
	client GoogleBooksClient
}

func NewGoogleBooks(client GoogleBooksClient) *GoogleBooks {
	return &GoogleBooks{client: client}
}

func (g *GoogleBooks) Lookup(ctx context.Context, isbn string) (Metadata, error) {
	res, err := g.client.VolumesByISBN(ctx, isbn)
	if err != nil {
		var statusErr *googlebooks.StatusError
		if errors.As(err, &statusErr) && deniedStatus(statusErr.StatusCode) {
			return Metadata{}, ErrNoMatch
		}
		return Metadata{}, fmt.Errorf("google books lookup %s: %w", isbn, err)
	}
	if res == nil || len(res.Items) == 0 {
		return Metadata{}, ErrNoMatch
	}

	info := res.Items[0].VolumeInfo
	if info.Title == "" {
		return Metadata{}, ErrNoMatch
	}
	m := Metadata{
		Title:         info.Title,
		Authors:       info.Authors,
		Publisher:     info.Publisher,
		PublishedDate: info.PublishedDate,
		Description:   info.Description,
		PageCount:     info.PageCount,
	}
	if info.ImageLinks != nil {
		m.Thumbnail = stringPtr(info.ImageLinks.Thumbnail)
	}
	return normalize(m), nil
}
