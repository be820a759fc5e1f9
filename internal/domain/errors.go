package domain

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindUnavailable
)

// HTTPStatus maps a kind onto its response status.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Stable machine-readable error codes.
const (
	CodeMissingToken       = "MISSING_TOKEN"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeAuthRequired       = "AUTH_REQUIRED"
	CodeInvalidType        = "INVALID_TYPE"
	CodeMissingFields      = "MISSING_FIELDS"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidSecret      = "INVALID_SECRET"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeScoringUnavailable = "SCORING_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
)

type Error struct {
	Kind Kind
	Code string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(code, msg string) error { return &Error{Kind: KindValidation, Code: code, Msg: msg} }
func Unauthenticated(code, msg string) error {
	return &Error{Kind: KindAuthentication, Code: code, Msg: msg}
}
func Forbidden(code, msg string) error { return &Error{Kind: KindAuthorization, Code: code, Msg: msg} }
func NotFound(msg string) error { return &Error{Kind: KindNotFound, Code: CodeNotFound, Msg: msg} }
func Conflict(msg string) error { return &Error{Kind: KindConflict, Code: CodeConflict, Msg: msg} }
func Unavailable(code, msg string, err error) error {
	return &Error{Kind: KindUnavailable, Code: code, Msg: msg, Err: err}
}
func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Msg: msg, Err: err}
}

// KindOf returns the kind of err, KindInternal for anything unclassified.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// CodeOf returns the stable code of err, CodeInternal for anything unclassified.
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) && de.Code != "" {
		return de.Code
	}
	return CodeInternal
}
