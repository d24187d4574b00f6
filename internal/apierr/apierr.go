package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeValidation         = "VALIDATION_ERROR"
	CodeEvaluationFailed   = "EVALUATION_FAILED"
	CodePersistence        = "PERSISTENCE_ERROR"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func DuplicateEmail(err error) *Error {
	return New(http.StatusBadRequest, CodeDuplicateEmail, err)
}

func NotFound(err error) *Error {
	return New(http.StatusNotFound, CodeNotFound, err)
}

func InvalidCredentials(err error) *Error {
	return New(http.StatusUnauthorized, CodeInvalidCredentials, err)
}

func Unauthorized(err error) *Error {
	return New(http.StatusUnauthorized, CodeUnauthorized, err)
}

func Forbidden(err error) *Error {
	return New(http.StatusForbidden, CodeForbidden, err)
}

func Validation(err error) *Error {
	return New(http.StatusBadRequest, CodeValidation, err)
}

func EvaluationFailed(err error) *Error {
	return New(http.StatusInternalServerError, CodeEvaluationFailed, err)
}

func Persistence(err error) *Error {
	return New(http.StatusInternalServerError, CodePersistence, err)
}

// From extracts the typed error from an error chain, defaulting to a 500.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return New(http.StatusInternalServerError, "", err)
}
