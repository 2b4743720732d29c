package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(ContextWithRequestID(r.Context(), "req-1"))

	JSON(w, r, http.StatusCreated, map[string]string{"key": "value"}, map[string]any{"wasCreated": true})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
		Meta    map[string]any    `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "value", resp.Data["key"])
	assert.Equal(t, "req-1", resp.Meta["requestId"])
	assert.Equal(t, true, resp.Meta["wasCreated"])
}

func TestJSON_NoMetaWithoutRequestID(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, []int{1}, nil)

	assert.NotContains(t, w.Body.String(), "meta")
}

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	details := []ErrorDetail{{Field: "isbn", Message: "is required"}}

	JSONError(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Len(t, resp.Error.Details, 1)
}

func TestNoContent(t *testing.T) {
	w := httptest.NewRecorder()

	NoContent(w)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())
}

func TestRateLimitMiddleware(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rl := NewRateLimitMiddleware(ctx, 1, 2)
	handler := rl.Middleware(okHandler)

	codes := make([]int, 3)
	for i := range codes {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		codes[i] = w.Code
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, "other clients keep their own bucket")
}

func TestAccessLogMiddleware_CapturesStatus(t *testing.T) {
	var captured *responseWriter
	handler := AccessLogMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = w.(*responseWriter)
		time.Sleep(time.Millisecond)
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, captured)
	assert.Equal(t, http.StatusTeapot, captured.statusCode)
	assert.Equal(t, int64(5), captured.bytesWritten)
}
