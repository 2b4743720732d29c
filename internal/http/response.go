package http

import (
	"errors"
	"log"
	"net/http"

	"bookstock/internal/httpx"
	"bookstock/internal/inventory"
)

const (
	codeNotFound      = "NOT_FOUND"
	codeCatalogMiss   = "CATALOG_MISS"
	codeValidation    = "VALIDATION_ERROR"
	codeUpstream      = "UPSTREAM_UNAVAILABLE"
	codePayloadTooBig = "PAYLOAD_TOO_LARGE"
	codeInternalError = "INTERNAL_ERROR"
)

// badRequest is a presentation-level validation failure with field details.
type badRequest struct {
	details []httpx.ErrorDetail
}

func (e *badRequest) Error() string {
	return "invalid request"
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		bad     *badRequest
		invalid *inventory.ValidationError
		tooBig  *http.MaxBytesError
	)
	switch {
	case errors.As(err, &bad):
		httpx.JSONError(w, r, http.StatusBadRequest, codeValidation, "Invalid request", bad.details)
	case errors.As(err, &invalid):
		httpx.JSONError(w, r, http.StatusBadRequest, codeValidation, "Invalid request",
			[]httpx.ErrorDetail{{Field: invalid.Field, Message: invalid.Message}})
	case errors.As(err, &tooBig):
		httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, codePayloadTooBig, "Request body too large", nil)
	case errors.Is(err, inventory.ErrCatalogMiss):
		httpx.JSONError(w, r, http.StatusNotFound, codeCatalogMiss, "ISBN not found in catalog", nil)
	case errors.Is(err, inventory.ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, codeNotFound, "Book not found", nil)
	case errors.Is(err, inventory.ErrTransport):
		log.Printf("upstream failure: request_id=%s error=%v", httpx.RequestIDFrom(r), err)
		httpx.JSONError(w, r, http.StatusServiceUnavailable, codeUpstream, "A dependency is unavailable, try again", nil)
	default:
		log.Printf("internal error: request_id=%s error=%v", httpx.RequestIDFrom(r), err)
		httpx.JSONError(w, r, http.StatusInternalServerError, codeInternalError, "An internal error occurred", nil)
	}
}
