package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/genomicx/qrx/pkg/errors"
	uijson "github.com/genomicx/qrx/pkg/ui/json"
)

type statusError struct {
	status int
	err    error
}

func (e *statusError) Error() string { return e.err.Error() }
func (e *statusError) Unwrap() error { return e.err }

func withStatus(status int, err error) error {
	return &statusError{status: status, err: err}
}

func notFound(path string) error {
	return errors.Newf(errors.ErrNotFound, "no route for %s", path).WithDetail("path", path)
}

// StatusFor maps an error code to its HTTP status
func StatusFor(err error) int {
	if se, ok := err.(*statusError); ok {
		return se.status
	}
	code := errors.GetErrorCode(err)
	switch {
	case code == errors.ErrInvalidInput, code == errors.ErrNoValidItems, code == errors.ErrUnsupportedFile:
		return http.StatusBadRequest
	case strings.HasPrefix(string(code), "ENCODE_"):
		return http.StatusBadRequest
	case code == errors.ErrNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Server) handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		log := s.logger.Debug()
		if err != nil {
			log = s.logger.Warn().Err(err)
		}
		log.Str("request_id", RequestID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request")
		if err != nil {
			writeError(w, err)
		}
	}
}

func writeError(w http.ResponseWriter, err error) {
	inner := err
	if se, ok := err.(*statusError); ok {
		inner = se.err
	}
	writeJSON(w, StatusFor(err), uijson.NewErrorBody(inner))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request, w http.ResponseWriter, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput, "invalid request body: %v", err)
	}
	return nil
}
