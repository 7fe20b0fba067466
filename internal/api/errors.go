package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/listenupapp/bookstore-server/internal/errors"
	"github.com/listenupapp/bookstore-server/internal/store"
)

// APIError is a custom error type that implements huma.StatusError.
// It maps domain errors to HTTP responses with consistent structure.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Field name to message, for validation errors"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler configures huma to use domain errors.
// Call this after creating the huma.API but before registering routes.
//
// Schema validation failures (422) are reported as 400 with one message per
// field, keyed by the field name without its "body." or "query." prefix.
func RegisterErrorHandler() {
	huma.NewError = newAPIError
}

func newAPIError(status int, message string, errs ...error) huma.StatusError {
	var details map[string]string

	for _, err := range errs {
		if err == nil {
			continue
		}

		var domainErr *domainerrors.Error
		if errors.As(err, &domainErr) {
			return &APIError{
				status:  domainErr.HTTPStatus(),
				Code:    string(domainErr.Code),
				Message: domainErr.Message,
				Details: domainErr.Details,
			}
		}

		var storeErr *store.Error
		if errors.As(err, &storeErr) {
			return &APIError{
				status:  storeErr.HTTPCode(),
				Code:    string(domainerrors.CodeForStatus(storeErr.HTTPCode())),
				Message: storeErr.Message,
			}
		}

		var detailer huma.ErrorDetailer
		if errors.As(err, &detailer) {
			if details == nil {
				details = make(map[string]string)
			}
			d := detailer.ErrorDetail()
			field := fieldName(d.Location)
			if _, seen := details[field]; !seen {
				details[field] = d.Message
			}
		}
	}

	if status == http.StatusUnprocessableEntity {
		status = http.StatusBadRequest
	}

	// Never leak internal error text to clients.
	if status >= http.StatusInternalServerError {
		message = "internal server error"
	}

	apiErr := &APIError{
		status:  status,
		Code:    string(domainerrors.CodeForStatus(status)),
		Message: message,
	}
	if len(details) > 0 {
		apiErr.Details = details
	}
	return apiErr
}

// fieldName turns a huma error location such as "body.price" or
// "query.price" into "price". A bare location like "body" is kept.
func fieldName(location string) string {
	for _, prefix := range []string{"body.", "query.", "path.", "header."} {
		if rest, ok := strings.CutPrefix(location, prefix); ok {
			return rest
		}
	}
	if location == "" {
		return "body"
	}
	return location
}
