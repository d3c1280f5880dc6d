// Package api holds the JSON envelope shared by every handler.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/cloo-solutions/techwiki/internal/domain"
	"github.com/cloo-solutions/techwiki/internal/logger"
	"github.com/cloo-solutions/techwiki/internal/telemetry"
)

const internalErrorMessage = "internal server error"

var exposeErrors atomic.Bool

// SetExposeErrors controls whether 5xx responses carry the underlying error
// text. Only development deployments turn it on.
func SetExposeErrors(expose bool) {
	exposeErrors.Store(expose)
}

// SuccessResponse is the {"data": ...} envelope.
type SuccessResponse struct {
	Data interface{} `json:"data"`
}

// ErrorResponse is the failure envelope. Fields is set for validation errors.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("failed to encode response", "status", status, "error", err)
	}
}

func Success(w http.ResponseWriter, status int, data interface{}) {
	JSON(w, status, SuccessResponse{Data: data})
}

func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// DomainErrorToHTTP maps an error code to its status. Anything that is not a
// DomainError is a store failure.
func DomainErrorToHTTP(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var de *domain.DomainError
	if !errors.As(err, &de) {
		return http.StatusInternalServerError
	}
	switch de.Code {
	case domain.ErrCodeValidation:
		return http.StatusBadRequest
	case domain.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// HandleError answers with the status DomainErrorToHTTP picks. Client errors
// carry the domain message and field causes; server errors are logged,
// reported, and hidden unless SetExposeErrors(true).
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	status := DomainErrorToHTTP(err)

	var de *domain.DomainError
	isDomain := errors.As(err, &de)

	if status < http.StatusInternalServerError {
		JSON(w, status, ErrorResponse{
			Error:  de.Message,
			Code:   de.Code,
			Fields: domain.FieldErrors(err),
		})
		return
	}

	logger.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	telemetry.CaptureError(r.Context(), err)

	resp := ErrorResponse{Error: internalErrorMessage, Code: domain.ErrCodeInternalError}
	if isDomain {
		resp.Code = de.Code
	}
	if exposeErrors.Load() {
		resp.Error = err.Error()
	}
	JSON(w, status, resp)
}
