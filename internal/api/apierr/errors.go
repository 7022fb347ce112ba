package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/cricketreg/internal/model"
	"github.com/mcoot/cricketreg/internal/services/admingate"
	"github.com/mcoot/cricketreg/internal/services/auth"
	"github.com/mcoot/cricketreg/internal/services/roster"
	"github.com/mcoot/cricketreg/internal/services/validation"
)

// APIError represents an API error response
type APIError struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeNotAdmin           = "NOT_ADMIN"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeUsernameExists     = "USERNAME_EXISTS"
	CodeNotFound           = "NOT_FOUND"
	CodeSuperseded         = "SUPERSEDED"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status WriteError would use for err
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var verrs *validation.Errors
	if errors.As(err, &verrs) {
		return &httpError{http.StatusUnprocessableEntity, APIError{
			Code:    CodeValidationFailed,
			Message: "Please correct the highlighted fields",
			Fields:  verrs.Fields,
		}}
	}

	switch {
	// Map model errors
	case errors.Is(err, model.ErrRegistrationNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeNotFound, Message: "Registration not found"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeInvalidCredentials, Message: "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Invalid or expired session"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{Code: CodeUsernameExists, Message: "Username already exists"}}
	case errors.Is(err, auth.ErrInvalidUsername), errors.Is(err, auth.ErrWeakPassword):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: err.Error()}}

	// Map admin gate errors
	case errors.Is(err, admingate.ErrUnauthenticated):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Authentication required"}}
	case errors.Is(err, admingate.ErrNotAdmin):
		return &httpError{http.StatusForbidden, APIError{Code: CodeNotAdmin, Message: "You are not an authorized admin"}}
	case errors.Is(err, admingate.ErrAllowListUnavailable):
		return &httpError{http.StatusServiceUnavailable, APIError{Code: CodeServiceUnavailable, Message: "Admin access cannot be checked right now"}}

	// Map roster errors
	case errors.Is(err, roster.ErrRosterUnavailable):
		return &httpError{http.StatusServiceUnavailable, APIError{Code: CodeServiceUnavailable, Message: "Player roster cannot be loaded right now"}}
	case errors.Is(err, roster.ErrSuperseded):
		return &httpError{http.StatusConflict, APIError{Code: CodeSuperseded, Message: "A newer roster request replaced this one"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Something went wrong, please try again"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Authentication required"}}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string) error {
	return &httpError{http.StatusNotFound, APIError{Code: CodeNotFound, Message: message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Something went wrong, please try again"}}
}
