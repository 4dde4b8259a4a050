package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ProblemDetails is the error body shared by every endpoint.
type ProblemDetails struct {
	Title  string               `json:"title"`
	Status int                  `json:"status"`
	Detail string               `json:"detail,omitempty"`
	Errors *map[string][]string `json:"errors,omitempty"`
}

const maxBodyBytes = 1 << 20

// DecodeJSON reads and unmarshals the request body into dst, rejecting
// payloads with unknown fields or trailing content.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// WriteJSON marshals v with the given status. Encoding failures are swallowed;
// by then the status line has already been sent.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteProblem emits a problem-details error response.
func WriteProblem(w http.ResponseWriter, status int, title, detail string) {
	WriteJSON(w, status, ProblemDetails{Title: title, Status: status, Detail: detail})
}

// WriteValidationProblem emits a 400 with per-field error messages.
func WriteValidationProblem(w http.ResponseWriter, fields map[string][]string) {
	problem := ProblemDetails{
		Title:  "Validation failed",
		Status: http.StatusBadRequest,
		Detail: "one or more fields are invalid",
	}
	if len(fields) > 0 {
		problem.Errors = &fields
	}
	WriteJSON(w, http.StatusBadRequest, problem)
}
