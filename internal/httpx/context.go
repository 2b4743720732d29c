package httpx

import (
	"context"
	"net/http"
)

type contextKey string

const requestIDKey contextKey = "requestID"

// RequestIDFrom retrieves the request ID from the request context.
func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
