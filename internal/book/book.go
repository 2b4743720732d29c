package book

import (
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when no record exists for an ISBN.
var ErrNotFound = errors.New("book not found")

// Book is the inventory record for a single ISBN. A Book exists in the
// store iff Quantity >= 1.
type Book struct {
	ISBN          string   `json:"isbn"`
	Title         string   `json:"title"`
	Slug          string   `json:"slug"`
	Authors       []string `json:"authors"`
	Publisher     string   `json:"publisher"`
	PublishedDate string   `json:"publishedDate"`
	Description   string   `json:"description"`
	PageCount     int      `json:"pageCount"`
	Thumbnail     *string  `json:"thumbnail"`
	Price         *float64 `json:"price"`
	Quantity      int      `json:"quantity"`
	Reviews       []string `json:"reviews"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// PriceUpdate sets the price of one record. A nil Price clears it.
type PriceUpdate struct {
	ISBN  string
	Price *float64
}

// NormalizeISBN strips surrounding whitespace, hyphens and inner spaces and
// upper-cases a trailing check character. It does not validate checksums.
func NormalizeISBN(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, " ", "")
	return strings.ToUpper(s)
}

// Clone returns a deep copy so callers never share slices with a store.
func (b Book) Clone() Book {
	out := b
	out.Authors = cloneStrings(b.Authors)
	out.Reviews = cloneStrings(b.Reviews)
	if b.Thumbnail != nil {
		t := *b.Thumbnail
		out.Thumbnail = &t
	}
	if b.Price != nil {
		p := *b.Price
		out.Price = &p
	}
	return out
}

// cloneStrings keeps nil as nil and an empty slice as empty.
func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
