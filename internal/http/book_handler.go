package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"bookstock/internal/book"
	"bookstock/internal/httpx"
	"bookstock/internal/inventory"
)

// Ledger is the write side the handlers drive.
type Ledger interface {
	Get(ctx context.Context, isbn string) (book.Book, error)
	Increment(ctx context.Context, isbn string) (inventory.IncrementResult, error)
	Decrement(ctx context.Context, isbn string) (inventory.DecrementResult, error)
	SetPrice(ctx context.Context, isbn, rawPrice string) (book.Book, error)
	BulkSetPrices(ctx context.Context, inputs []inventory.PriceInput) (int, error)
	AppendReview(ctx context.Context, isbn, text string) (book.Book, error)
}

// Browser is the read-only view the handlers query.
type Browser interface {
	SearchBySlug(ctx context.Context, fragment string) ([]book.Book, error)
	ListPage(ctx context.Context, page, pageSize int) (inventory.Page, error)
}

type BookHandler struct {
	ledger Ledger
	view   Browser
}

func NewBookHandler(ledger Ledger, view Browser) *BookHandler {
	return &BookHandler{ledger: ledger, view: view}
}

// Register mounts the book routes on mux. instrument may wrap each route,
// e.g. with metrics; nil leaves handlers as they are.
func (h *BookHandler) Register(mux *http.ServeMux, instrument func(route string, next http.Handler) http.Handler) {
	routes := []struct {
		pattern string
		fn      func(*http.Request) Outcome
	}{
		{"GET /v1/books", h.List},
		{"GET /v1/books/search/{slug}", h.Search},
		{"POST /v1/books/update-prices", h.UpdatePrices},
		{"GET /v1/books/{isbn}", h.Get},
		{"POST /v1/books/{isbn}", h.Act},
		{"PUT /v1/books/{isbn}/price", h.SetPrice},
	}
	for _, rt := range routes {
		var handler http.Handler = serve(rt.fn)
		if instrument != nil {
			handler = instrument(rt.pattern, handler)
		}
		mux.Handle(rt.pattern, handler)
	}
}

func serve(fn func(*http.Request) Outcome) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fn(r).Write(w, r)
	}
}

// List handles GET /v1/books?page=&limit=.
func (h *BookHandler) List(r *http.Request) Outcome {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		return Failure(err)
	}
	limit, err := queryInt(r, "limit", inventory.DefaultPageSize)
	if err != nil {
		return Failure(err)
	}
	if limit > inventory.MaxPageSize {
		limit = inventory.MaxPageSize
	}

	p, err := h.view.ListPage(r.Context(), page, limit)
	if err != nil {
		return Failure(err)
	}
	return PageOf(p)
}

// Search handles GET /v1/books/search/{slug}. No match is reported as 404.
func (h *BookHandler) Search(r *http.Request) Outcome {
	books, err := h.view.SearchBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		return Failure(err)
	}
	if len(books) == 0 {
		return Failure(inventory.ErrNotFound)
	}
	return Many(books)
}

func (h *BookHandler) Get(r *http.Request) Outcome {
	b, err := h.ledger.Get(r.Context(), r.PathValue("isbn"))
	if err != nil {
		return Failure(err)
	}
	return Single(http.StatusOK, b)
}

// Act handles POST /v1/books/{isbn}, dispatching on the body's action.
func (h *BookHandler) Act(r *http.Request) Outcome {
	var req bookActionRequest
	if err := decodeJSON(r, &req); err != nil {
		return Failure(err)
	}
	if details := ValidateStruct(req); len(details) > 0 {
		return Failure(&badRequest{details: details})
	}

	ctx := r.Context()
	isbn := r.PathValue("isbn")

	switch req.Action {
	case actionIncrement:
		res, err := h.ledger.Increment(ctx, isbn)
		if err != nil {
			return Failure(err)
		}
		status := http.StatusOK
		if res.WasCreated {
			status = http.StatusCreated
		}
		return Single(status, res.Book).WithMeta("wasCreated", res.WasCreated)

	case actionDecrement:
		res, err := h.ledger.Decrement(ctx, isbn)
		if err != nil {
			return Failure(err)
		}
		if res.Deleted {
			return Deleted()
		}
		return Single(http.StatusOK, res.Book)

	case actionAddReview:
		b, err := h.ledger.AppendReview(ctx, isbn, req.ReviewText)
		if err != nil {
			return Failure(err)
		}
		return Single(http.StatusOK, b)

	default:
		return Failure(fieldError("action", "must be one of increment, decrement, add_review"))
	}
}

// SetPrice handles PUT /v1/books/{isbn}/price.
func (h *BookHandler) SetPrice(r *http.Request) Outcome {
	var req priceRequest
	if err := decodeJSON(r, &req); err != nil {
		return Failure(err)
	}
	if !req.Price.Present {
		return Failure(fieldError("price", "price is required"))
	}

	b, err := h.ledger.SetPrice(r.Context(), r.PathValue("isbn"), req.Price.Text)
	if err != nil {
		return Failure(err)
	}
	return Single(http.StatusOK, b)
}

// UpdatePrices handles POST /v1/books/update-prices.
func (h *BookHandler) UpdatePrices(r *http.Request) Outcome {
	var entries []priceEntry
	if err := decodeJSON(r, &entries); err != nil {
		return Failure(err)
	}
	if len(entries) == 0 {
		return Failure(fieldError("body", "body must contain at least one entry"))
	}

	inputs := make([]inventory.PriceInput, 0, len(entries))
	for i, e := range entries {
		if details := ValidateStruct(e); len(details) > 0 {
			for j := range details {
				details[j].Field = "[" + strconv.Itoa(i) + "]." + details[j].Field
			}
			return Failure(&badRequest{details: details})
		}
		inputs = append(inputs, inventory.PriceInput{ISBN: e.ISBN, Price: e.Price.Text})
	}

	modified, err := h.ledger.BulkSetPrices(r.Context(), inputs)
	if err != nil {
		return Failure(err)
	}
	return Modified(modified)
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return fieldError("body", "request body is required")
		}
		return fieldError("body", "request body must be valid JSON")
	}
	return nil
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fieldError(key, key+" must be an integer")
	}
	return n, nil
}

func fieldError(field, message string) error {
	return &badRequest{details: []httpx.ErrorDetail{{Field: field, Message: message}}}
}
