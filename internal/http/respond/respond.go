// Package respond writes JSON responses shared by handlers and middleware.
package respond

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// JSON takes a response status code and arbitrary data and writes a json response to the client
func JSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err = w.Write(out); err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

// Error writes {"error": msg} with status.
func Error(w http.ResponseWriter, status int, msg string) error {
	return JSON(w, status, ErrorResponse{Error: msg})
}
