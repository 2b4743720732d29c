package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookstock/internal/platform/openlibrary"
)

type OpenLibraryClient interface {
	GetBooksByISBN(ctx context.Context, isbns []string) (map[string]openlibrary.BookDetails, error)
}

// OpenLibrary looks ISBNs up in the Open Library books API.
type OpenLibrary struct {
	client OpenLibraryClient
}

func NewOpenLibrary(client OpenLibraryClient) *OpenLibrary {
	return &OpenLibrary{client: client}
}

func (o *OpenLibrary) Lookup(ctx context.Context, isbn string) (Metadata, error) {
	batch, err := o.client.GetBooksByISBN(ctx, []string{isbn})
	if err != nil {
		var statusErr *openlibrary.StatusError
		if errors.As(err, &statusErr) && deniedStatus(statusErr.StatusCode) {
			return Metadata{}, ErrNoMatch
		}
		return Metadata{}, fmt.Errorf("open library lookup %s: %w", isbn, err)
	}
	details, ok := batch["ISBN:"+isbn]
	if !ok || details.Title == "" {
		return Metadata{}, ErrNoMatch
	}

	authors := make([]string, 0, len(details.Authors))
	for _, a := range details.Authors {
		if a.Name != "" {
			authors = append(authors, a.Name)
		}
	}

	title := details.Title
	if details.Subtitle != "" {
		title = title + ": " + details.Subtitle
	}

	return normalize(Metadata{
		Title:         title,
		Authors:       authors,
		Publisher:     formatPublishers(details.Publishers),
		PublishedDate: details.PublishDate,
		Description:   details.Notes,
		PageCount:     details.NumberOfPages,
		Thumbnail:     stringPtr(firstNonEmpty(details.Cover.Medium, details.Cover.Large, details.Cover.Small)),
	}), nil
}

func formatPublishers(p []openlibrary.Publisher) string {
	names := make([]string, 0, len(p))
	for _, pub := range p {
		if pub.Name != "" {
			names = append(names, pub.Name)
		}
	}
	return strings.Join(names, ", ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
