package mediabroker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internallog "github.com/famlink/mediabroker/internal/logging"
	"github.com/famlink/mediabroker/pkg/capture"
	"github.com/famlink/mediabroker/pkg/capture/capturetest"
)

var errBoom = errors.New("boom")

func videoAndAudio() capture.Constraints {
	return capture.Constraints{
		Video: capture.VideoConstraints{Enabled: true, Tier: capture.TierMedium},
		Audio: capture.AudioConstraints{Enabled: true},
	}
}

func newAttempt(c capture.Capturer) *acquisition {
	return &acquisition{
		capturer: c,
		timeout:  time.Second,
		log:      internallog.NewLogger("test"),
	}
}

func TestAcquisitionGrantsFirstTry(t *testing.T) {
	capturer := capturetest.New()
	g, err := newAttempt(capturer).run(context.Background(), videoAndAudio())
	require.NoError(t, err)
	assert.False(t, g.degraded)
	assert.True(t, g.constraints.Video.Enabled)
	assert.Equal(t, 1, capturer.Calls())
}

func TestAcquisitionDegradesOnceOnBusyDevice(t *testing.T) {
	capturer := capturetest.New()
	capturer.FailWith(capture.ErrDeviceUnavailable)

	g, err := newAttempt(capturer).run(context.Background(), videoAndAudio())
	require.NoError(t, err)
	assert.True(t, g.degraded)
	assert.False(t, g.constraints.Video.Enabled)
	assert.True(t, g.constraints.Audio.Enabled)

	calls := capturer.CallConstraints()
	require.Len(t, calls, 2)
	assert.True(t, calls[0].Video.Enabled)
	assert.False(t, calls[1].Video.Enabled)
}

func TestAcquisitionDeniesAfterSecondBusyFailure(t *testing.T) {
	capturer := capturetest.New()
	capturer.FailWith(capture.ErrDeviceUnavailable, capture.ErrDeviceUnavailable)

	_, err := newAttempt(capturer).run(context.Background(), videoAndAudio())
	require.Error(t, err)
	assert.True(t, errors.Is(err, capture.ErrDeviceUnavailable))
	assert.Equal(t, 2, capturer.Calls())
}

func TestAcquisitionAudioOnlyBusyDoesNotRetry(t *testing.T) {
	capturer := capturetest.New()
	capturer.FailWith(capture.ErrDeviceUnavailable)

	cons := videoAndAudio().WithoutVideo()
	_, err := newAttempt(capturer).run(context.Background(), cons)
	require.Error(t, err)
	assert.True(t, errors.Is(err, capture.ErrDeviceUnavailable))
	assert.Equal(t, 1, capturer.Calls())
}

func TestAcquisitionPermissionDeniedNeverRetries(t *testing.T) {
	capturer := capturetest.New()
	capturer.FailWith(capture.ErrPermissionDenied)

	_, err := newAttempt(capturer).run(context.Background(), videoAndAudio())
	require.Error(t, err)
	assert.True(t, errors.Is(err, capture.ErrPermissionDenied))
	assert.Equal(t, 1, capturer.Calls())
}

func TestAcquisitionUnknownErrorNeverRetries(t *testing.T) {
	capturer := capturetest.New()
	capturer.FailWith(errBoom)

	_, err := newAttempt(capturer).run(context.Background(), videoAndAudio())
	require.Error(t, err)
	assert.Equal(t, capture.ReasonUnknown, capture.Classify(err))
	assert.True(t, errors.Is(err, errBoom))
	assert.Equal(t, 1, capturer.Calls())
}

func TestAcquisitionTimesOutAsDeviceUnavailable(t *testing.T) {
	capturer := capturetest.New()
	release := capturer.Hold()
	defer release()

	a := newAttempt(capturer)
	a.timeout = 20 * time.Millisecond

	// Audio-only so the timeout is not followed by a degraded retry.
	_, err := a.run(context.Background(), videoAndAudio().WithoutVideo())
	require.Error(t, err)
	assert.True(t, errors.Is(err, capture.ErrDeviceUnavailable))
}
