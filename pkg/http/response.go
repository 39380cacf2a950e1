package http

import (
	"encoding/json"
	"net/http"

	apperrors "roombook/pkg/errors"
)

// The booking endpoints answer bare JSON payloads (arrays, objects) rather
// than an envelope; the response shapes are part of the wire contract.

type ErrorResponse struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError renders err with the status code carried by its AppError form.
// Unrecognized errors become a generic 500 so no storage detail leaks.
func WriteError(w http.ResponseWriter, err error) error {
	appErr := apperrors.AsAppError(err)
	return WriteJSON(w, appErr.StatusCode(), ErrorResponse{
		Error:   appErr.Message,
		Details: appErr.Details,
	})
}

// WriteStatus answers a bare status code with an empty body, matching the
// endpoints that acknowledge without a payload.
func WriteStatus(w http.ResponseWriter, statusCode int) {
	w.WriteHeader(statusCode)
}
