package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"scholarcheck/internal/validate"
)

// Envelope is the body of every response.
type Envelope struct {
	StatusCode int    `json:"status_code"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
	Data       any    `json:"data,omitempty"`
}

// statusError carries the HTTP status an error maps to.
type statusError struct {
	status int
	msg    string
}

func (e *statusError) Error() string { return e.msg }

func errStatus(status int, msg string) error { return &statusError{status: status, msg: msg} }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondOK(w http.ResponseWriter, r *http.Request, data any) {
	writeJSON(w, http.StatusOK, Envelope{
		StatusCode: http.StatusOK,
		Status:     http.StatusText(http.StatusOK),
		RequestID:  middleware.GetReqID(r.Context()),
		Data:       data,
	})
}

// respondError writes err with its mapped status; unmapped errors are 500s
// and their text is not exposed.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	var se *statusError
	if errors.As(err, &se) {
		status, msg = se.status, se.msg
	}
	writeJSON(w, status, Envelope{
		StatusCode: status,
		Status:     http.StatusText(status),
		Error:      msg,
		RequestID:  middleware.GetReqID(r.Context()),
	})
}

const maxJSONBytes = 1 << 20

// decodeJSON decodes one JSON object into T and validates it.
func decodeJSON[T any](r *http.Request) (T, error) {
	var dst T
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&dst); err != nil {
		if errors.Is(err, io.EOF) {
			return dst, errStatus(http.StatusBadRequest, "empty body")
		}
		return dst, errStatus(http.StatusBadRequest, "invalid JSON: "+err.Error())
	}
	if dec.More() {
		return dst, errStatus(http.StatusBadRequest, "unexpected trailing data")
	}
	if err := validate.Struct(dst); err != nil {
		return dst, errStatus(http.StatusBadRequest, err.Error())
	}
	return dst, nil
}
