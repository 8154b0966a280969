// Package apperr defines the tagged error taxonomy shared by the
// transcription core and the transport layer. Every failure that crosses the
// request boundary carries exactly one Kind.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	// KindNotReady means the inference engines are still loading. Transient;
	// the caller should retry later.
	KindNotReady Kind = "not_ready"
	// KindUnavailable means engine loading failed. Permanent until the
	// process is restarted.
	KindUnavailable Kind = "unavailable"
	// KindUnsupportedFormat means the input could not be decoded. Caller error.
	KindUnsupportedFormat Kind = "unsupported_format"
	// KindEmptyResult means no speech was detected. A normal negative
	// outcome, not an engine malfunction.
	KindEmptyResult Kind = "empty_result"
	// KindProcessing means an unexpected failure inside an engine call or
	// stitching step. The whole request is aborted.
	KindProcessing Kind = "processing"
)

type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func NotReady() *Error {
	return New(KindNotReady, "models are still loading, retry later")
}

func Unavailable(reason string) *Error {
	return New(KindUnavailable, fmt.Sprintf("models failed to load: %s", reason))
}

func UnsupportedFormat(detail string) *Error {
	return New(KindUnsupportedFormat, detail)
}

func EmptyResult() *Error {
	return New(KindEmptyResult, "no speech detected")
}

func Processing(cause error) *Error {
	return Wrap(KindProcessing, "transcription failed", cause)
}

// KindOf returns the Kind of err, or "" when err carries no taxonomy tag.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps a Kind to the status code the transport layer reports.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotReady, KindUnavailable:
		return http.StatusServiceUnavailable
	case KindUnsupportedFormat:
		return http.StatusBadRequest
	case KindEmptyResult:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
