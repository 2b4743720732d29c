package httpx

import (
	"encoding/json"
	"log"
	"net/http"
)

type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
	Meta    any  `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   ErrorResponseBody `json:"error"`
	Meta    any               `json:"meta,omitempty"`
}

type ErrorResponseBody struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func buildMeta(r *http.Request, custom map[string]any) any {
	requestID := RequestIDFrom(r)
	if requestID == "" && len(custom) == 0 {
		return nil
	}
	meta := make(map[string]any, len(custom)+1)
	for k, v := range custom {
		meta[k] = v
	}
	if requestID != "" {
		meta["requestId"] = requestID
	}
	return meta
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response failed: %v", err)
	}
}

// JSON writes a success envelope. meta is merged with the request ID.
func JSON(w http.ResponseWriter, r *http.Request, status int, data any, meta map[string]any) {
	writeJSON(w, status, SuccessResponse{
		Success: true,
		Data:    data,
		Meta:    buildMeta(r, meta),
	})
}

func JSONError(w http.ResponseWriter, r *http.Request, status int, code, message string, details []ErrorDetail) {
	writeJSON(w, status, ErrorResponse{
		Success: false,
		Error: ErrorResponseBody{
			Code:    code,
			Message: message,
			Details: details,
		},
		Meta: buildMeta(r, nil),
	})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
