package apperr

import (
	"errors"
	"net/http"
)

// AppError is the single error shape the workflow services raise. It carries
// the HTTP status the handler should answer with and an application code from
// the registry in codes.go.
type AppError struct {
	HTTPStatus int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

func New(status int, code string, message string) *AppError {
	return &AppError{HTTPStatus: status, Code: code, Message: message}
}

func BadRequest(code string, message string) *AppError {
	return New(http.StatusBadRequest, code, message)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, CodeNotFound, message)
}

func Unknown() *AppError {
	return New(http.StatusInternalServerError, CodeUnknown, "an unknown error has occurred")
}

// From normalizes any error into an AppError. Unexpected errors become the
// generic unknown-error code so handlers never leak internals.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Unknown()
}
