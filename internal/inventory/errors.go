package inventory

import (
	"errors"
	"fmt"

	"bookstock/internal/book"
)

var (
	// ErrNotFound means the operation needs an existing record and there is none.
	ErrNotFound = book.ErrNotFound
	// ErrCatalogMiss means the ISBN does not exist in any catalog, as opposed
	// to not being in inventory yet.
	ErrCatalogMiss = errors.New("isbn not found in catalog")
	// ErrValidation marks malformed input. Match it with errors.Is; use
	// errors.As with *ValidationError for the offending field.
	ErrValidation = errors.New("validation failed")
	// ErrTransport marks infrastructure failures of the store or the catalog.
	// They are safe for the caller to retry; the ledger never retries.
	ErrTransport = errors.New("transport failure")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// storeErr passes ErrNotFound through and wraps everything else as a
// transport failure of op.
func storeErr(op string, err error) error {
	if errors.Is(err, book.ErrNotFound) {
		return ErrNotFound
	}
	return &TransportError{Op: op, Err: err}
}
