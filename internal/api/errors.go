package api

import (
	"encoding/json"
	"net/http"
)

// Error codes returned in the JSON error envelope.
const (
	errInvalidJSON         = "invalid_json"
	errCommandTextRequired = "command_text_required"
	errTagsMustBeList      = "tags_must_be_list"
	errInvalidArgument     = "invalid_argument"
	errMethodNotAllowed    = "method_not_allowed"
	errSearchUnavailable   = "search_unavailable"
	errInternal            = "internal_error"
)

// ErrorResponse represents an HTTP error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteError writes an error envelope with the given code.
func WriteError(w http.ResponseWriter, code string, status int) {
	WriteJSON(w, ErrorResponse{Error: code}, status)
}

// WriteErrorMessage writes an error envelope with a human-readable message.
func WriteErrorMessage(w http.ResponseWriter, code, message string, status int) {
	WriteJSON(w, ErrorResponse{Error: code, Message: message}, status)
}
