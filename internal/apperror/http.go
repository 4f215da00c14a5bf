package apperror

import (
	"encoding/json"
	"errors"
	"net/http"
)

type errorResponse struct {
	Error  string       `json:"error"`
	Fields []FieldError `json:"fields,omitempty"`
}

// Write renders err as a JSON error response. Internal errors are masked
// with a generic message so storage details never leak to clients.
func Write(w http.ResponseWriter, err error) {
	status := Status(err)

	body := errorResponse{Error: err.Error()}
	if status == http.StatusInternalServerError {
		body.Error = "internal server error"
	}

	var validation *ValidationError
	if errors.As(err, &validation) {
		body.Fields = validation.Fields
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
