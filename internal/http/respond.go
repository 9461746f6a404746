package httpserver

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/Clark-Hu/cinecraze/internal/apperr"
)

const maxRequestBody = 1 << 20 // 1 MiB

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.WithError(err).Error("failed to encode response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, errorResponse{Success: false, Message: message})
}

// respondAppError writes the client-safe message of err. Causes are logged,
// never written.
func (s *Server) respondAppError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		s.logger.WithError(err).WithField("path", r.URL.Path).Error("unhandled error")
		s.respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	status := appErr.Kind.HTTPStatus()
	if status >= http.StatusInternalServerError {
		s.logger.WithError(err).WithField("path", r.URL.Path).Error("request failed")
	}
	s.respondError(w, status, appErr.Message)
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	var maxBytesError *http.MaxBytesError
	switch {
	case errors.As(err, &syntaxError):
		s.respondError(w, http.StatusBadRequest, "Malformed JSON payload")
	case errors.As(err, &typeError):
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid value for field %s", typeError.Field))
	case errors.As(err, &maxBytesError):
		s.respondError(w, http.StatusRequestEntityTooLarge, "Request body too large")
	case errors.Is(err, io.EOF):
		s.respondError(w, http.StatusBadRequest, "Request body cannot be empty")
	default:
		s.respondError(w, http.StatusBadRequest, "Unable to parse request body")
	}
}
