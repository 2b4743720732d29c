package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	"bookstock/internal/catalog"
	"bookstock/internal/slug"
)

// TestMetadata is the catalog answer used by StaticCatalog.
var TestMetadata = catalog.Metadata{
	Title:         "Yüzüklerin Efendisi",
	Slug:          slug.Make("Yüzüklerin Efendisi"),
	Authors:       []string{"J. R. R. Tolkien"},
	Publisher:     "Metis",
	PublishedDate: "2002",
	Description:   catalog.DefaultDescription,
	PageCount:     1200,
}

// StaticCatalog answers every lookup with TestMetadata except for the ISBNs
// in misses, which report catalog.ErrNoMatch.
func StaticCatalog(misses ...string) catalog.Lookup {
	missing := make(map[string]bool, len(misses))
	for _, isbn := range misses {
		missing[isbn] = true
	}
	return catalog.LookupFunc(func(_ context.Context, isbn string) (catalog.Metadata, error) {
		if missing[isbn] {
			return catalog.Metadata{}, catalog.ErrNoMatch
		}
		return TestMetadata, nil
	})
}

// NewRequest creates a new HTTP request for testing. A string body is sent
// verbatim; anything else is JSON encoded.
func NewRequest(method, path string, body interface{}) *http.Request {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		bodyBytes, _ := json.Marshal(b)
		reader = bytes.NewReader(bodyBytes)
	}
	r := httptest.NewRequest(method, path, reader)
	if reader != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	return r
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

// Data returns the envelope's data member as an object.
func (r RecordResponse) Data() map[string]interface{} {
	data, _ := r.Body["data"].(map[string]interface{})
	return data
}

// ErrorCode returns the envelope's error code, or "" for success bodies.
func (r RecordResponse) ErrorCode() string {
	e, _ := r.Body["error"].(map[string]interface{})
	code, _ := e["code"].(string)
	return code
}

// RecordHTTPResponse records the HTTP response
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		_ = json.Unmarshal(bodyBytes, &bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}
