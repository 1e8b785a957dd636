package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		reason Reason
	}{
		{"classified error", NewError(ReasonDeviceUnavailable, errors.New("v4l2: busy")), ReasonDeviceUnavailable},
		{"wrapped classified error", fmt.Errorf("acquire: %w", ErrPermissionDenied), ReasonPermissionDenied},
		{"os permission", os.ErrPermission, ReasonPermissionDenied},
		{"deadline", context.DeadlineExceeded, ReasonDeviceUnavailable},
		{"anything else", errors.New("boom"), ReasonUnknown},
		{"nil-cause sentinel", ErrDeviceUnavailable, ReasonDeviceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.reason, Classify(tc.err))
		})
	}
}

func TestErrorMatchesByCategory(t *testing.T) {
	native := errors.New("device or resource busy")
	err := NewError(ReasonDeviceUnavailable, native)

	assert.True(t, errors.Is(err, ErrDeviceUnavailable))
	assert.False(t, errors.Is(err, ErrPermissionDenied))
	assert.True(t, errors.Is(err, native))
	assert.Contains(t, err.Error(), "device unavailable")
	assert.Contains(t, err.Error(), "busy")
}
