// Package httpx provides HTTP response utilities for the JSON API surface.
package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the structured error payload returned by every endpoint.
type ErrorBody struct {
	Detail any `json:"detail"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Error sends a structured error body with the given status code.
func Error(w http.ResponseWriter, status int, detail any) {
	JSON(w, status, ErrorBody{Detail: detail})
}

// DecodeJSON decodes the JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
