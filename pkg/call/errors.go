package call

import (
	"fmt"

	"github.com/famlink/mediabroker/pkg/capture"
)

// FailureKind categorizes a setup failure for the UI layer.
type FailureKind int

const (
	// FailureInternal is an unclassified error; surfaced as-is.
	FailureInternal FailureKind = iota
	// FailurePermission means camera/microphone access was refused and
	// the user has to grant it outside the app before calling again.
	FailurePermission
	// FailureTransient means the device was busy or not readable. A
	// user-triggered retry may succeed; setup never retries on its own.
	FailureTransient
)

// SetupError is a classified call-setup failure.
type SetupError struct {
	Kind FailureKind
	err  error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("call setup failed: %v", e.err)
}

func (e *SetupError) Unwrap() error {
	return e.err
}

// Retryable reports whether offering a manual retry makes sense.
func (e *SetupError) Retryable() bool {
	return e.Kind == FailureTransient
}

// Message is the user-facing description of the failure.
func (e *SetupError) Message() string {
	switch e.Kind {
	case FailurePermission:
		return "Camera and microphone access is required to start a call. Please allow access in your device settings."
	case FailureTransient:
		return "The camera or microphone is busy right now. Please try again."
	default:
		return "The call could not be started."
	}
}

func newSetupError(err error) *SetupError {
	switch capture.Classify(err) {
	case capture.ReasonPermissionDenied:
		return &SetupError{Kind: FailurePermission, err: err}
	case capture.ReasonDeviceUnavailable:
		return &SetupError{Kind: FailureTransient, err: err}
	default:
		return &SetupError{Kind: FailureInternal, err: err}
	}
}
