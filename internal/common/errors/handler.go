// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	"net/http"
	"time"
)

// ErrorHandler writes standardized error responses and logs them.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleHTTPError normalizes any error to a StandardError, logs it and
// writes it as the JSON response body with a matching status code.
func (h *ErrorHandler) HandleHTTPError(w http.ResponseWriter, operation string, err error) {
	stdErr := h.normalizeError(err)
	status := HTTPStatus(stdErr.Code)

	h.logger.Error("Operation failed", map[string]interface{}{
		"operation":     operation,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
		"httpStatus":    status,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": stdErr})
}

// normalizeError ensures we always have a StandardError.
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// HTTPStatus maps internal error codes to HTTP status codes. Unknown codes
// map to 500.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeProfileValidationFailed, ErrCodeInvalidRequestFormat:
		return http.StatusBadRequest
	case ErrCodeVisaNotFound, ErrCodePlanNotFound, ErrCodeTaskNotFound,
		ErrCodePathwayNotFound, ErrCodeStartVisaUnresolved, ErrCodeGoalVisaUnresolved,
		ErrCodeIndexNotFound, "RESOURCE_NOT_FOUND":
		return http.StatusNotFound
	case ErrCodeQueryTimeout, ErrCodeSearchTimeout, "TIMEOUT_ERROR":
		return http.StatusGatewayTimeout
	case ErrCodeCatalogLoadFailed, ErrCodePlanStoreFailed,
		ErrCodeDatabaseConnectionFailed, ErrCodeElasticsearchConnectionFailed:
		return http.StatusServiceUnavailable
	case "BUSINESS_RULE_VIOLATION":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
