package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jbweber/homelab/adh/internal/device"
	"github.com/jbweber/homelab/adh/internal/domain"
	"github.com/jbweber/homelab/adh/internal/logging"
	"github.com/jbweber/homelab/adh/internal/repository"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes.
const (
	ErrCodeBadRequest = "bad_request"
	ErrCodeNotFound   = "not_found"
	ErrCodeConflict   = "conflict"
	ErrCodeInternal   = "internal_error"
	ErrCodeBadGateway = "bad_gateway"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// clientErrors are failures caused by the request itself.
var clientErrors = []error{
	repository.ErrInvalidEntity,
	repository.ErrReferenceNotFound,
	domain.ErrInvalidMAC,
	domain.ErrInvalidIPv4,
	domain.ErrInvalidIPv6,
	domain.ErrMissingField,
	device.ErrMalformedAddress,
	device.ErrInvalidConnectionType,
	device.ErrOwnerNotFound,
	device.ErrMACMismatch,
}

func isClientError(err error) bool {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// writeStoreError maps an error from the storage or device layer to a
// response. Unexpected errors are logged and reported as 500.
func writeStoreError(w http.ResponseWriter, logger *logging.Logger, r *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeNotFound(w, err.Error())
	case errors.Is(err, repository.ErrDuplicate):
		writeError(w, http.StatusConflict, ErrCodeConflict, err.Error())
	case isClientError(err):
		writeBadRequest(w, err.Error())
	default:
		logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeInternalError(w, "internal server error")
	}
}
