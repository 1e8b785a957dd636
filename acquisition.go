package mediabroker

import (
	"context"
	"time"

	"github.com/pion/logging"

	"github.com/famlink/mediabroker/pkg/capture"
)

// attemptState is the lifecycle of a single acquisition attempt.
type attemptState string

const (
	attemptRequesting attemptState = "requesting"
	attemptDegraded   attemptState = "degraded"
	attemptGranted    attemptState = "granted"
	attemptDenied     attemptState = "denied"
)

// acquisition runs one acquisition attempt: the initial hardware call
// plus at most one degraded retry. It is used once and discarded.
type acquisition struct {
	capturer  capture.Capturer
	timeout   time.Duration
	log       logging.LeveledLogger
	onAttempt func()

	state    attemptState
	fellBack bool
}

type grant struct {
	source      capture.Source
	constraints capture.Constraints
	degraded    bool
}

// run drives the attempt to a terminal state. DeviceUnavailable on a
// video request falls back to audio-only once; PermissionDenied and
// unclassified errors terminate immediately. At most two hardware calls
// happen per run.
func (a *acquisition) run(ctx context.Context, cons capture.Constraints) (*grant, error) {
	a.state = attemptRequesting

	for {
		src, err := a.capture(ctx, cons)
		if err == nil {
			a.state = attemptGranted
			return &grant{source: src, constraints: cons, degraded: a.fellBack}, nil
		}

		reason := capture.Classify(err)
		switch {
		case reason == capture.ReasonDeviceUnavailable && cons.Video.Enabled && !a.fellBack:
			a.log.Infof("device unavailable with video requested, retrying audio-only: %v", err)
			a.fellBack = true
			a.state = attemptDegraded
			cons = cons.WithoutVideo()

		case reason == capture.ReasonDeviceUnavailable:
			a.state = attemptDenied
			return nil, capture.NewError(capture.ReasonDeviceUnavailable, err)

		case reason == capture.ReasonPermissionDenied:
			a.state = attemptDenied
			return nil, capture.NewError(capture.ReasonPermissionDenied, err)

		default:
			a.state = attemptDenied
			return nil, capture.NewError(capture.ReasonUnknown, err)
		}
	}
}

// capture performs one bounded hardware call. The platform API offers no
// cancellation, so on timeout the call keeps running in the background and
// a late-arriving stream is closed to avoid leaking the device.
func (a *acquisition) capture(ctx context.Context, cons capture.Constraints) (capture.Source, error) {
	if a.onAttempt != nil {
		a.onAttempt()
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	type result struct {
		src capture.Source
		err error
	}
	done := make(chan result, 1)
	go func() {
		src, err := a.capturer.Capture(ctx, cons)
		done <- result{src, err}
	}()

	select {
	case r := <-done:
		return r.src, r.err
	case <-ctx.Done():
		go func() {
			if r := <-done; r.src != nil {
				r.src.Close()
			}
		}()
		return nil, capture.NewError(capture.ReasonDeviceUnavailable, ctx.Err())
	}
}
