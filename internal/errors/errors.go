package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind classifies a domain failure. The services return exactly one kind per
// violated precondition; handlers translate kinds to HTTP statuses.
type Kind string

const (
	KindNotFound     Kind = "NOT_FOUND"
	KindForbidden    Kind = "FORBIDDEN"
	KindConflict     Kind = "CONFLICT"
	KindInvalidInput Kind = "INVALID_INPUT"
)

// Error is a typed domain failure with a human-readable message.
type Error struct {
	Kind    Kind   `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func InvalidInput(message string) *Error {
	return &Error{Kind: KindInvalidInput, Message: message}
}

// KindOf extracts the failure kind from an error chain. The second return is
// false when the error is not a domain failure (infrastructure errors).
func KindOf(err error) (Kind, bool) {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind, true
	}
	return "", false
}

// statusFor maps each failure kind to its transport status.
func statusFor(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes the appropriate error response for a service failure.
// Non-domain errors become an opaque 500.
func Respond(c *gin.Context, err error) {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		c.JSON(statusFor(domainErr.Kind), domainErr)
		return
	}
	c.JSON(http.StatusInternalServerError, &Error{
		Kind:    "INTERNAL_ERROR",
		Message: "Internal server error",
	})
}

// Unauthorized sends a 401 response. Authentication failures sit outside the
// domain taxonomy; only the session middleware and auth handlers use this.
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	c.JSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHORIZED", "message": message})
}

// BadRequest sends a 400 for malformed request bodies before any service call.
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request body"
	}
	c.JSON(http.StatusBadRequest, &Error{Kind: KindInvalidInput, Message: message})
}
