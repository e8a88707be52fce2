// Package errors defines the structured application error type and the
// constructors for every failure the relay can report.
package errors

import (
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ValidationError     ErrorType = "VALIDATION_ERROR"
	MalformedBodyError  ErrorType = "MALFORMED_BODY"
	PayloadTooLargeErr  ErrorType = "ATTACHMENTS_TOO_LARGE"
	NotConfiguredError  ErrorType = "NOT_CONFIGURED"
	ProviderError       ErrorType = "PROVIDER_REJECTED"
	ServerError         ErrorType = "SERVER_ERROR"
	MethodNotAllowedErr ErrorType = "METHOD_NOT_ALLOWED"
)

// AppError represents a structured application error. HTTPStatus is the
// status the error-handler middleware responds with; Raw preserves the
// underlying cause for logging.
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Raw
}

// GetHTTPStatus returns the HTTP status for this error, defaulting to 500
// when none was set.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus == 0 {
		return http.StatusInternalServerError
	}
	return e.HTTPStatus
}

// New creates a new AppError with the status derived from the type.
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap wraps a raw error with AppError context.
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

// MissingFields reports a submission lacking one or more required fields.
func MissingFields(fields string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Message:    "Missing required fields: name, email, message",
		Detail:     fields,
		HTTPStatus: http.StatusBadRequest,
	}
}

// ValidationFailed reports any other client-side validation failure.
func ValidationFailed(message string, detail string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Message:    message,
		Detail:     detail,
		HTTPStatus: http.StatusBadRequest,
	}
}

// MalformedBody reports a request body that could not be parsed as JSON.
func MalformedBody(err error) *AppError {
	return &AppError{
		Type:       MalformedBodyError,
		Message:    "Request body is not valid JSON",
		Detail:     err.Error(),
		HTTPStatus: http.StatusBadRequest,
		Raw:        err,
	}
}

// AttachmentsTooLarge reports a combined decoded attachment size over the
// cap. The detail carries the true total so the caller can see how far
// over the limit the submission was.
func AttachmentsTooLarge(totalBytes int64, capBytes int64) *AppError {
	return &AppError{
		Type:       PayloadTooLargeErr,
		Message:    "Attachments too large",
		Detail:     fmt.Sprintf("decoded total %d bytes exceeds cap of %d bytes", totalBytes, capBytes),
		HTTPStatus: http.StatusRequestEntityTooLarge,
	}
}

// NotConfigured reports missing delivery configuration. This is an
// operator mistake, not a user mistake, so the detail names the gap but
// the response stays generic.
func NotConfigured() *AppError {
	return &AppError{
		Type:       NotConfiguredError,
		Message:    "Email is not configured",
		HTTPStatus: http.StatusInternalServerError,
	}
}

// ProviderRejected reports a non-success response from the outbound email
// provider, carrying the provider's own diagnostic text.
func ProviderRejected(err error) *AppError {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	return &AppError{
		Type:       ProviderError,
		Message:    "Email provider rejected the send",
		Detail:     detail,
		HTTPStatus: http.StatusBadGateway,
		Raw:        err,
	}
}

// InternalServerError reports any other unexpected failure with a generic
// message; internals must not leak past the endpoint boundary.
func InternalServerError(message string) *AppError {
	return &AppError{
		Type:       ServerError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError, MalformedBodyError:
		return http.StatusBadRequest
	case PayloadTooLargeErr:
		return http.StatusRequestEntityTooLarge
	case ProviderError:
		return http.StatusBadGateway
	case MethodNotAllowedErr:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}
