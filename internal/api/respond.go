package api

import (
	"encoding/json"
	"errors"
	"net/http"

	errs "github.com/matzehuels/flashtrack/pkg/errors"
	"github.com/matzehuels/flashtrack/pkg/session"
	"github.com/matzehuels/flashtrack/pkg/store"
)

// maxBody bounds request bodies.
const maxBody = 1 << 20

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound) && errs.GetCode(err) == "":
		err = errs.Wrap(errs.ErrCodeSessionNotFound, err, "session %q", chiParam(r, "id"))
	case errors.Is(err, store.ErrNotFound) && errs.GetCode(err) == "":
		err = errs.Wrap(errs.ErrCodeCourseNotFound, err, "course not found")
	}

	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, ErrorResponse{Code: code, Message: message(err)})
}

// message joins the messages along a chain of coded errors without their
// code prefixes.
func message(err error) string {
	var e *errs.Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + message(e.Cause)
}

func statusFor(code errs.Code) int {
	switch code {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidFormat, errs.ErrCodeInvalidMode,
		errs.ErrCodeInvalidName, errs.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errs.ErrCodeMalformedGraph:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeNotFound, errs.ErrCodeCourseNotFound, errs.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case errs.ErrCodeStorage:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON body into v.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode request body")
	}
	return nil
}
