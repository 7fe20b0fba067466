package store

import (
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	domainerrors "github.com/listenupapp/bookstore-server/internal/errors"
)

// Error is a persistence error carrying the HTTP status it should surface as.
type Error struct {
	Code    int    // HTTP status code
	Message string // User-facing message
	Err     error  // Underlying error (optional)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error with the same code and message, so named
// variants such as ErrBookNotFound work with errors.Is after WithCause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// HTTPCode returns the HTTP status code associated with this error.
func (e *Error) HTTPCode() int { return e.Code }

// GetStatus returns the HTTP status code, satisfying huma.StatusError.
func (e *Error) GetStatus() int { return e.Code }

// MarshalJSON renders the error in the API error shape. The cause is
// never exposed.
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Code    domainerrors.Code `json:"code"`
		Message string            `json:"message"`
	}{domainerrors.CodeForStatus(e.Code), e.Message})
}

// WithMessage returns a new error with a custom message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Code: e.Code, Message: msg, Err: e.Err}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Err: err}
}

// Sentinel errors.
var (
	ErrNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "resource not found",
	}

	ErrAlreadyExists = &Error{
		Code:    http.StatusConflict,
		Message: "resource already exists",
	}

	ErrInvalidInput = &Error{
		Code:    http.StatusBadRequest,
		Message: "invalid input",
	}

	ErrUnauthorized = &Error{
		Code:    http.StatusUnauthorized,
		Message: "unauthorized",
	}

	ErrForbidden = &Error{
		Code:    http.StatusForbidden,
		Message: "forbidden",
	}
)

// Named errors.
var (
	ErrUserNotFound     = ErrNotFound.WithMessage("user not found")
	ErrBookNotFound     = ErrNotFound.WithMessage("book not found")
	ErrRelationNotFound = ErrNotFound.WithMessage("relation not found")
	ErrUsernameTaken    = ErrAlreadyExists.WithMessage("a user with that username already exists")
)
