package services

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrCode struct {
	Code   string
	Status int
}

var (
	ErrCodeInvalidRequest  = ErrCode{"invalid_request", http.StatusBadRequest}
	ErrCodeUnauthorized    = ErrCode{"unauthorized", http.StatusUnauthorized}
	ErrCodeForbidden       = ErrCode{"forbidden", http.StatusForbidden}
	ErrCodeNotFound        = ErrCode{"not_found", http.StatusNotFound}
	ErrCodeConflict        = ErrCode{"conflict", http.StatusConflict}
	ErrCodeTooManyRequests = ErrCode{"too_many_requests", http.StatusTooManyRequests}
	ErrCodeInternal        = ErrCode{"internal_server_error", http.StatusInternalServerError}
)

// Error is returned by every service operation that fails for a reason the
// caller should see. Msg is safe to show to clients; Err is for logs only.
type Error struct {
	Code ErrCode
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) HttpStatus() int { return e.Code.Status }

// AsError extracts a service error from err, if there is one.
func AsError(err error) (*Error, bool) {
	var serr *Error
	if errors.As(err, &serr) {
		return serr, true
	}
	return nil, false
}

func newError(code ErrCode, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

func invalid(format string, args ...any) error   { return newError(ErrCodeInvalidRequest, format, args...) }
func forbidden(format string, args ...any) error { return newError(ErrCodeForbidden, format, args...) }
func notFound(format string, args ...any) error  { return newError(ErrCodeNotFound, format, args...) }
func conflict(format string, args ...any) error  { return newError(ErrCodeConflict, format, args...) }

func internal(msg string, err error) error {
	return &Error{Code: ErrCodeInternal, Msg: msg, Err: err}
}
