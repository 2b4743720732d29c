// Package catalog resolves an ISBN to descriptive book metadata using
// external providers.
package catalog

import (
	"context"
	"errors"

	"bookstock/internal/slug"
)

// ErrNoMatch means the provider has no record for the ISBN or refused to
// serve it. It is a normal outcome, not a failure.
var ErrNoMatch = errors.New("no catalog match")

// Placeholders for fields the provider left out.
const (
	DefaultPublisher     = "N/A"
	DefaultPublishedDate = "N/A"
	DefaultDescription   = "No description available."
)

// Metadata is the hydrated part of an inventory record.
type Metadata struct {
	Title         string   `json:"title"`
	Slug          string   `json:"slug"`
	Authors       []string `json:"authors"`
	Publisher     string   `json:"publisher"`
	PublishedDate string   `json:"publishedDate"`
	Description   string   `json:"description"`
	PageCount     int      `json:"pageCount"`
	Thumbnail     *string  `json:"thumbnail"`
}

// Lookup fetches metadata for an ISBN. Implementations return ErrNoMatch
// for a miss and any other error for transport or decoding failures.
type Lookup interface {
	Lookup(ctx context.Context, isbn string) (Metadata, error)
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(ctx context.Context, isbn string) (Metadata, error)

func (f LookupFunc) Lookup(ctx context.Context, isbn string) (Metadata, error) {
	return f(ctx, isbn)
}

// normalize fills defaults and derives the slug from the title.
func normalize(m Metadata) Metadata {
	if m.Authors == nil {
		m.Authors = []string{}
	}
	if m.Publisher == "" {
		m.Publisher = DefaultPublisher
	}
	if m.PublishedDate == "" {
		m.PublishedDate = DefaultPublishedDate
	}
	if m.Description == "" {
		m.Description = DefaultDescription
	}
	if m.PageCount < 0 {
		m.PageCount = 0
	}
	if m.Thumbnail != nil && *m.Thumbnail == "" {
		m.Thumbnail = nil
	}
	m.Slug = slug.Make(m.Title)
	return m
}

// deniedStatus reports client errors that mean "won't serve this ISBN".
// 429 is excluded: rate limiting is a transport condition.
func deniedStatus(code int) bool {
	return code >= 400 && code < 500 && code != 429
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
