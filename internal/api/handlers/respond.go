package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hugh/go-tracker/internal/api/dto"
	"github.com/hugh/go-tracker/internal/api/middleware"
	"github.com/hugh/go-tracker/internal/api/validation"
	"github.com/hugh/go-tracker/internal/tracker"
)

// Responder writes the JSON envelope and maps domain errors to status codes.
// With debug set, store failures expose their cause in the error field.
type Responder struct {
	logger *slog.Logger
	debug  bool
}

func NewResponder(logger *slog.Logger, debug bool) *Responder {
	return &Responder{logger: logger, debug: debug}
}

func (rs *Responder) JSON(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, dto.Envelope{
		Status:  dto.StatusSuccess,
		Message: message,
		Data:    data,
	})
}

func (rs *Responder) Fail(w http.ResponseWriter, status int, msg string, details map[string]string) {
	writeJSON(w, status, dto.Envelope{
		Status:  dto.StatusError,
		Error:   msg,
		Details: details,
	})
}

// Error maps err onto a status code. Unknown errors are logged and reported
// as 500.
func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	var verr *tracker.ValidationError
	switch {
	case errors.As(err, &verr):
		rs.Fail(w, http.StatusBadRequest, "Validation failed", verr.Fields)
	case errors.Is(err, tracker.ErrValidation):
		rs.Fail(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, tracker.ErrBadAssignee):
		rs.Fail(w, http.StatusBadRequest, "Assignee is not a project member", nil)
	case errors.Is(err, tracker.ErrInvalidStage):
		rs.Fail(w, http.StatusBadRequest, "Workflow stage does not belong to this project", nil)
	case errors.Is(err, tracker.ErrForbidden):
		rs.Fail(w, http.StatusForbidden, "Forbidden", nil)
	case errors.Is(err, tracker.ErrNotFound):
		rs.Fail(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, tracker.ErrConflict):
		rs.Fail(w, http.StatusConflict, err.Error(), nil)
	default:
		rs.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
		msg := "Internal server error"
		if rs.debug {
			msg = err.Error()
		}
		rs.Fail(w, http.StatusInternalServerError, msg, nil)
	}
}

// decode reads a JSON body into v and runs its validate tags. It writes the
// 400 response itself and reports whether the handler should continue.
func (rs *Responder) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		rs.Fail(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}
	if errs := validation.Struct(v); len(errs) > 0 {
		rs.Fail(w, http.StatusBadRequest, "Validation failed", errs)
		return false
	}
	return true
}

// pathID parses a positive integer URL parameter.
func (rs *Responder) pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil || id == 0 {
		rs.Fail(w, http.StatusBadRequest, "Invalid "+name, nil)
		return 0, false
	}
	return uint(id), true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
