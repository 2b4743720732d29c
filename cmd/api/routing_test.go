package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstock/internal/book"
	"bookstock/internal/config"
	"bookstock/internal/testutil"
)

func testConfig() config.Config {
	return config.Config{
		StoreDriver:    config.DriverMemory,
		MaxBodyBytes:   1 << 20,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
		CORSOrigins:    []string{"http://localhost:3000"},
		Catalog:        config.CatalogConfig{Timeout: time.Second},
	}
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return newHandler(ctx, testConfig(), book.NewMemoryRepo(), testutil.StaticCatalog(), prometheus.NewRegistry())
}

func TestV1Routing(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		method  string
		path    string
		body    interface{}
		expCode int
	}{
		{http.MethodGet, "/healthz", nil, http.StatusOK},
		{http.MethodGet, "/readyz", nil, http.StatusOK},
		{http.MethodGet, "/v1/books", nil, http.StatusOK},
		{http.MethodPost, "/v1/books/123", map[string]string{"action": "increment"}, http.StatusCreated},
		{http.MethodGet, "/v1/books/123", nil, http.StatusOK},
		{http.MethodGet, "/v1/books/search/yuzuk", nil, http.StatusOK},
		{http.MethodPut, "/v1/books/123/price", map[string]interface{}{"price": "9.99"}, http.StatusOK},
		{http.MethodPost, "/v1/books/update-prices", []map[string]interface{}{{"isbn": "123", "price": 5}}, http.StatusOK},
		{http.MethodGet, "/books", nil, http.StatusNotFound},
		{http.MethodDelete, "/v1/books/123", nil, http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, testutil.NewRequest(tt.method, tt.path, tt.body))

			assert.Equal(t, tt.expCode, w.Code, w.Body.String())
			assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
			assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHandler(t)
	h.ServeHTTP(httptest.NewRecorder(), testutil.NewRequest(http.MethodPost, "/v1/books/123", map[string]string{"action": "increment"}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `bookstock_ledger_operations_total{op="increment",outcome="ok"} 1`), body)
	assert.Contains(t, body, "bookstock_ledger_hydrations_total 1")
	assert.Contains(t, body, `bookstock_http_requests_total{method="POST",route="POST /v1/books/{isbn}",status="201"} 1`)
}

func TestBuildCatalog_WithoutRedis(t *testing.T) {
	cfg := testConfig()
	cfg.Catalog.Providers = []string{config.ProviderGoogle, config.ProviderOpenLibrary}

	lookup, closeFn := buildCatalog(context.Background(), cfg)
	defer closeFn()

	assert.NotNil(t, lookup)
}

func TestOpenStore_Memory(t *testing.T) {
	repo, closeFn, err := openStore(context.Background(), testConfig())
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, &book.MemoryRepo{}, repo)
}
