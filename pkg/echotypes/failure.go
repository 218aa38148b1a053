// Package echotypes defines the failure taxonomy shared by all workspace components.
// Collaborator failures are classified into these kinds at the component boundary and
// are never propagated as raw transport errors.
package echotypes

import (
	"errors"
	"fmt"
)

// FailureKind classifies an operation failure.
type FailureKind string

const (
	FailureNotFound           FailureKind = "not_found"
	FailurePermissionDenied   FailureKind = "permission_denied"
	FailureIOError            FailureKind = "io_error"
	FailureTimeout            FailureKind = "timeout"
	FailureServiceUnavailable FailureKind = "service_unavailable"
	FailureInvalidArgument    FailureKind = "invalid_argument"
	FailureBusy               FailureKind = "busy"
	FailureConflict           FailureKind = "conflict" // reserved
	FailureUnknown            FailureKind = ""
)

// Failure is a typed operation error. Op names the failing operation, Message is
// human-readable, and Err optionally wraps an underlying cause.
type Failure struct {
	Kind    FailureKind
	Op      string
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Op, f.Message, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Op, f.Message)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// NewFailure constructs a Failure without an underlying cause.
func NewFailure(kind FailureKind, op, message string) *Failure {
	return &Failure{Kind: kind, Op: op, Message: message}
}

// WrapFailure constructs a Failure wrapping an underlying cause.
func WrapFailure(kind FailureKind, op, message string, err error) *Failure {
	return &Failure{Kind: kind, Op: op, Message: message, Err: err}
}

// KindOf extracts the failure kind from err, unwrapping as needed.
// Errors outside the taxonomy report FailureUnknown.
func KindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return FailureUnknown
}

// IsTimeout reports whether err is a timeout failure.
func IsTimeout(err error) bool {
	return KindOf(err) == FailureTimeout
}

// IsBusy reports whether err is a busy failure.
func IsBusy(err error) bool {
	return KindOf(err) == FailureBusy
}
