package apierr

import (
	"errors"
	"fmt"
	"net/http"
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

func BadRequest(code string, err error) *Error { return New(http.StatusBadRequest, code, err) }

func NotFound(code string) *Error { return New(http.StatusNotFound, code, nil) }

func Unauthorized(code string) *Error { return New(http.StatusUnauthorized, code, nil) }

func Forbidden(code string) *Error { return New(http.StatusForbidden, code, nil) }

func Conflict(code string, err error) *Error { return New(http.StatusConflict, code, err) }

func Internal(code string, err error) *Error { return New(http.StatusInternalServerError, code, err) }

// As reports the api error wrapped in err, if any.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) && ae != nil {
		return ae, true
	}
	return nil, false
}

// StatusOf returns the HTTP status carried by err, or 500.
func StatusOf(err error) int {
	if ae, ok := As(err); ok && ae.Status != 0 {
		return ae.Status
	}
	return http.StatusInternalServerError
}
