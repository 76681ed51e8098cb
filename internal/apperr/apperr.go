package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the stable error classification returned to callers. The transport
// layer maps kinds to status codes; the message is for humans.
type Kind string

const (
	KindNotFound            Kind = "not_found"
	KindInvariantViolation  Kind = "invariant_violation"
	KindUnauthorized        Kind = "unauthorized"
	KindExternalUnavailable Kind = "external_unavailable"
	KindPartialFailure      Kind = "partial_failure"
)

type Error struct {
	Kind     Kind
	Message  string
	Err      error
	Failures []string
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Invariant(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvariantViolation, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...interface{}) *Error {
	return &Error{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func External(msg string, err error) *Error {
	return &Error{Kind: KindExternalUnavailable, Message: msg, Err: err}
}

// Partial reports a multi-target operation where some targets failed. The
// successful subset is still returned by the operation alongside this error.
func Partial(msg string, failures []string) *Error {
	return &Error{Kind: KindPartialFailure, Message: msg, Failures: failures}
}

func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// HTTPStatus translates an error kind to the status code the transport layer
// responds with. Unclassified errors are internal server errors.
func HTTPStatus(err error) int {
	switch k, _ := KindOf(err); k {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvariantViolation:
		return http.StatusUnprocessableEntity
	case KindUnauthorized:
		return http.StatusForbidden
	case KindExternalUnavailable:
		return http.StatusBadGateway
	case KindPartialFailure:
		return http.StatusMultiStatus
	default:
		return http.StatusInternalServerError
	}
}
