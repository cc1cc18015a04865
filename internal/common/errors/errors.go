// Package errors provides the standardized error type surfaced by the wizard
// and rendered by the HTTP front end.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Wizard flow
	ErrCodeInvalidTransition   ErrorCode = "INVALID_TRANSITION"
	ErrCodeValidationFailed    ErrorCode = "VALIDATION_FAILED"
	ErrCodeMissingPrecondition ErrorCode = "MISSING_PRECONDITION"
	ErrCodeSelectionRequired   ErrorCode = "SELECTION_REQUIRED"

	// Sessions
	ErrCodeSessionNotFound    ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeSessionStoreFailed ErrorCode = "SESSION_STORE_FAILED"

	// Infrastructure
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeSearchQueryFailed        ErrorCode = "SEARCH_QUERY_FAILED"

	// Outbound
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeNotificationDisabled   ErrorCode = "NOTIFICATION_DISABLED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches a key to the error and returns it for chaining.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidTransitionError is returned when an action does not apply to the
// wizard's current step.
func NewInvalidTransitionError(action string, current int) *StandardError {
	return newError(ErrCodeInvalidTransition,
		"Action not allowed at the current step",
		fmt.Sprintf("action: %s, currentStep: %d", action, current),
		false,
	).WithMetadata("currentStep", current)
}

// NewValidationFailedError creates a non-retryable input validation error.
func NewValidationFailedError(message, details string) *StandardError {
	return newError(ErrCodeValidationFailed, message, details, false)
}

// NewMissingPreconditionError blocks a step until earlier data is fixed.
func NewMissingPreconditionError(message string) *StandardError {
	return newError(ErrCodeMissingPrecondition, message, "", false)
}

// NewSelectionRequiredError is returned when a confirm action names nothing
// that was offered.
func NewSelectionRequiredError(kind, id string) *StandardError {
	return newError(ErrCodeSelectionRequired,
		fmt.Sprintf("A %s must be selected", kind),
		fmt.Sprintf("%sId: %s", kind, id),
		false,
	)
}

func NewSessionNotFoundError(sessionID string) *StandardError {
	return newError(ErrCodeSessionNotFound, "Session not found or expired",
		fmt.Sprintf("sessionId: %s", sessionID), false)
}

func NewSessionStoreFailedError(err error) *StandardError {
	return newError(ErrCodeSessionStoreFailed, "Session store error", err.Error(), true)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true)
}

func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Database insert operation failed", err.Error(), true)
}

func NewSearchQueryFailedError(index string, err error) *StandardError {
	return newError(ErrCodeSearchQueryFailed, "Elasticsearch query error",
		fmt.Sprintf("index: %s, error: %s", index, err.Error()), true)
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true)
}

func NewNotificationDisabledError(channel string) *StandardError {
	return newError(ErrCodeNotificationDisabled, "Notification channel is disabled",
		fmt.Sprintf("channel: %s", channel), false)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// Normalize turns any error into a StandardError.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// HTTPStatus maps an error code to the status the API responds with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed, ErrCodeSelectionRequired:
		return http.StatusBadRequest
	case ErrCodeSessionNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidTransition, ErrCodeMissingPrecondition, ErrCodeNotificationDisabled:
		return http.StatusConflict
	case ErrCodeNotificationSendFailed:
		return http.StatusBadGateway
	case ErrCodeSessionStoreFailed, ErrCodeDatabaseConnectionFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "SESSION"):
		return "SESSION"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "SEARCH"):
		return "DATABASE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "TRANSITION") || strings.Contains(codeStr, "PRECONDITION") ||
		strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "SELECTION"):
		return "WIZARD"
	default:
		return "OTHER"
	}
}

// IsCode reports whether err is a StandardError carrying code.
func IsCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	return errors.As(err, &stdErr) && stdErr.Code == code
}
