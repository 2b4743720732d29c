package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"bookstock/internal/book"
	"bookstock/internal/inventory"
)

func TestOutcome_Write(t *testing.T) {
	tests := []struct {
		name    string
		outcome Outcome
		expCode int
		expBody string
	}{
		{"single", Single(http.StatusCreated, book.Book{ISBN: "1"}), http.StatusCreated, `"isbn":"1"`},
		{"many", Many([]book.Book{{ISBN: "1"}, {ISBN: "2"}}), http.StatusOK, `"data":[{`},
		{"page", PageOf(inventory.Page{TotalCount: 3, TotalPages: 1, CurrentPage: 1, Items: []book.Book{}}), http.StatusOK, `"totalBooks":3`},
		{"deleted", Deleted(), http.StatusNoContent, ""},
		{"modified", Modified(4), http.StatusOK, `"modifiedCount":4`},
		{"not found", Failure(inventory.ErrNotFound), http.StatusNotFound, `"NOT_FOUND"`},
		{"transport", Failure(&inventory.TransportError{Op: "store.find", Err: assert.AnError}), http.StatusServiceUnavailable, `"UPSTREAM_UNAVAILABLE"`},
		{"unknown", Failure(assert.AnError), http.StatusInternalServerError, `"INTERNAL_ERROR"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			tt.outcome.Write(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.expCode, w.Code)
			if tt.expBody == "" {
				assert.Zero(t, w.Body.Len())
				return
			}
			assert.Contains(t, w.Body.String(), tt.expBody)
		})
	}
}

func TestOutcome_WithMetaDoesNotShare(t *testing.T) {
	base := Single(http.StatusOK, book.Book{}).WithMeta("a", 1)
	derived := base.WithMeta("b", 2)

	assert.Len(t, base.Meta, 1)
	assert.Len(t, derived.Meta, 2)
}
