package api

import (
	"errors"
	"fmt"
)

// FailureKind classifies a backend call failure for the UI, which turns each
// kind into an overlay or toast rather than terminating.
type FailureKind int

const (
	// NetworkFailure covers transport errors and unreachable hosts.
	NetworkFailure FailureKind = iota
	// AuthFailure is a 401/403, or an invalid session on current-user.
	AuthFailure
	// MissingLayout means the record endpoint returned no usable layout.
	MissingLayout
	// ExportFailure covers export endpoint errors and undecodable payloads.
	ExportFailure
	// SubmitFailure covers create/update rejections.
	SubmitFailure
	// DeleteFailure covers delete rejections.
	DeleteFailure
)

func (k FailureKind) String() string {
	switch k {
	case NetworkFailure:
		return "network failure"
	case AuthFailure:
		return "authentication failure"
	case MissingLayout:
		return "missing layout"
	case ExportFailure:
		return "export failure"
	case SubmitFailure:
		return "submit failure"
	case DeleteFailure:
		return "delete failure"
	}
	return "unknown failure"
}

// Error is the typed failure every client method returns.
type Error struct {
	Kind    FailureKind
	Status  int
	Message string
	err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.err }

func newError(kind FailureKind, status int, message string, err error) *Error {
	return &Error{Kind: kind, Status: status, Message: message, err: err}
}

// KindOf extracts the failure kind from an error chain, NetworkFailure when
// the error is not ours.
func KindOf(err error) FailureKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return NetworkFailure
}

// IsAuth reports whether err is an authentication failure.
func IsAuth(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == AuthFailure
}
