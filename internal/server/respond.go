package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/vantagedata/dashlayout/pkg/errors"
)

const maxBody = 1 << 20

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
	Field   string      `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders err as {code, message, field}. Errors without a code are
// reported as INTERNAL_ERROR and their text is not exposed.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if code == "" {
		code = errors.ErrCodeInternal
		msg = "internal error"
	}

	status := statusFor(code)
	if status >= 500 {
		s.opts.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorBody{Code: code, Message: msg, Field: errors.GetField(err)})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidLayout, errors.ErrCodeInvalidItem,
		errors.ErrCodeInvalidEmail, errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeLayoutNotFound, errors.ErrCodeItemNotFound:
		return http.StatusNotFound
	case errors.ErrCodeLayoutLocked, errors.ErrCodeCollision, errors.ErrCodeNoDrag:
		return http.StatusConflict
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeStorage:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON request body into v, rejecting unknown fields and
// trailing data.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed request body")
	}
	if dec.More() {
		return errors.New(errors.ErrCodeInvalidInput, "request body must hold a single JSON value")
	}
	return nil
}
