package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Reason is the failure category a capture attempt resolved to. Backends
// report errors in whatever vocabulary their platform uses; everything is
// folded into exactly these categories before it reaches a caller.
type Reason int

const (
	// ReasonUnknown covers failures with no recovery path inside the
	// coordinator. They are surfaced as-is and never retried.
	ReasonUnknown Reason = iota
	// ReasonPermissionDenied means the user or OS refused device access.
	// Recovery requires user action outside this subsystem.
	ReasonPermissionDenied
	// ReasonDeviceUnavailable means the device is busy, missing, or not
	// readable right now. A degraded retry may succeed.
	ReasonDeviceUnavailable
)

func (r Reason) String() string {
	switch r {
	case ReasonPermissionDenied:
		return "permission denied"
	case ReasonDeviceUnavailable:
		return "device unavailable"
	default:
		return "unknown"
	}
}

// Sentinel errors for each category. Backends may return these directly,
// wrap a native error with NewError, or rely on Classify's fallbacks.
var (
	ErrPermissionDenied  = &Error{Reason: ReasonPermissionDenied}
	ErrDeviceUnavailable = &Error{Reason: ReasonDeviceUnavailable}
)

// Error is a classified capture failure carrying the native cause.
type Error struct {
	Reason Reason
	Cause  error
}

// NewError wraps cause with a capture failure category.
func NewError(reason Reason, cause error) *Error {
	return &Error{Reason: reason, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Reason.String()
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches by category so errors.Is(err, ErrDeviceUnavailable) works
// regardless of the wrapped cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Reason == e.Reason
}

// Classify folds an arbitrary backend error into a Reason. Classified
// errors keep their category; OS permission errors map to
// ReasonPermissionDenied; deadline expiry counts as the device not
// answering in time.
func Classify(err error) Reason {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Reason
	}
	if errors.Is(err, os.ErrPermission) {
		return ReasonPermissionDenied
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonDeviceUnavailable
	}
	return ReasonUnknown
}
