package http

import (
	"net/http"

	"bookstock/internal/book"
	"bookstock/internal/httpx"
	"bookstock/internal/inventory"
)

// OutcomeKind discriminates what a handler produced. Writers switch on it
// instead of inspecting the payload.
type OutcomeKind int

const (
	KindSingle OutcomeKind = iota
	KindMany
	KindPage
	KindDeleted
	KindModified
	KindError
)

// Outcome is the result of one request. Only the fields of its Kind are set.
type Outcome struct {
	Kind     OutcomeKind
	Status   int
	Record   book.Book
	Records  []book.Book
	Page     inventory.Page
	Modified int
	Meta     map[string]any
	Err      error
}

func Single(status int, b book.Book) Outcome {
	return Outcome{Kind: KindSingle, Status: status, Record: b}
}

func Many(books []book.Book) Outcome {
	return Outcome{Kind: KindMany, Status: http.StatusOK, Records: books}
}

func PageOf(p inventory.Page) Outcome {
	return Outcome{Kind: KindPage, Status: http.StatusOK, Page: p}
}

func Deleted() Outcome {
	return Outcome{Kind: KindDeleted, Status: http.StatusNoContent}
}

func Modified(n int) Outcome {
	return Outcome{Kind: KindModified, Status: http.StatusOK, Modified: n}
}

func Failure(err error) Outcome {
	return Outcome{Kind: KindError, Err: err}
}

func (o Outcome) WithMeta(key string, value any) Outcome {
	meta := make(map[string]any, len(o.Meta)+1)
	for k, v := range o.Meta {
		meta[k] = v
	}
	meta[key] = value
	o.Meta = meta
	return o
}

func (o Outcome) Write(w http.ResponseWriter, r *http.Request) {
	switch o.Kind {
	case KindSingle:
		httpx.JSON(w, r, o.Status, o.Record, o.Meta)
	case KindMany:
		httpx.JSON(w, r, o.Status, o.Records, o.Meta)
	case KindPage:
		httpx.JSON(w, r, o.Status, listResponse{
			TotalBooks:  o.Page.TotalCount,
			TotalPages:  o.Page.TotalPages,
			CurrentPage: o.Page.CurrentPage,
			Books:       o.Page.Items,
		}, o.Meta)
	case KindDeleted:
		httpx.NoContent(w)
	case KindModified:
		httpx.JSON(w, r, o.Status, modifiedResponse{ModifiedCount: o.Modified}, o.Meta)
	case KindError:
		writeError(w, r, o.Err)
	}
}
