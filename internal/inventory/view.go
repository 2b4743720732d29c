package inventory

import (
	"context"

	"bookstock/internal/book"
	"bookstock/internal/slug"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Reader is the read side of the store. The view only needs these methods,
// so it cannot create or change records.
type Reader interface {
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, offset, limit int) ([]book.Book, error)
	FindBySlug(ctx context.Context, fragment string) ([]book.Book, error)
}

// View is the read-only projection of the ledger used for browsing.
type View struct {
	repo Reader
}

func NewView(repo Reader) *View {
	return &View{repo: repo}
}

type Page struct {
	Items       []book.Book
	TotalCount  int
	TotalPages  int
	CurrentPage int
	PageSize    int
}

// SearchBySlug returns records whose slug contains the slugified fragment,
// ordered by title. A fragment with no slug characters matches nothing.
func (v *View) SearchBySlug(ctx context.Context, fragment string) ([]book.Book, error) {
	needle := slug.Make(fragment)
	if needle == "" {
		return []book.Book{}, nil
	}
	books, err := v.repo.FindBySlug(ctx, needle)
	if err != nil {
		return nil, storeErr("store.search", err)
	}
	if books == nil {
		books = []book.Book{}
	}
	return books, nil
}

// ListPage returns one page of records ordered by title then ISBN. Pages
// are 1-based; a page past the end is empty, not an error.
func (v *View) ListPage(ctx context.Context, page, pageSize int) (Page, error) {
	if page < 1 {
		return Page{}, invalid("page", "must be at least 1")
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return Page{}, invalid("limit", "must be between 1 and 100")
	}

	total, err := v.repo.Count(ctx)
	if err != nil {
		return Page{}, storeErr("store.count", err)
	}
	items := []book.Book{}
	// Pages that start past the last record, including offsets that would
	// overflow int, are empty without asking the store.
	if page-1 < (total+pageSize-1)/pageSize {
		items, err = v.repo.List(ctx, (page-1)*pageSize, pageSize)
		if err != nil {
			return Page{}, storeErr("store.list", err)
		}
		if items == nil {
			items = []book.Book{}
		}
	}

	return Page{
		Items:       items,
		TotalCount:  total,
		TotalPages:  (total + pageSize - 1) / pageSize,
		CurrentPage: page,
		PageSize:    pageSize,
	}, nil
}
