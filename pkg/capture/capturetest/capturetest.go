// Package capturetest provides a scriptable in-memory Capturer for tests.
// It records every hardware call, can fail with a queued error sequence,
// and can hold a capture open so tests can exercise the coalescing window.
package capturetest

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pion/webrtc/v4"
	"go.uber.org/atomic"

	"github.com/famlink/mediabroker/pkg/capture"
)

// Capturer implements capture.Capturer.
type Capturer struct {
	mu     sync.Mutex
	script []error
	calls  []capture.Constraints
	gate   chan struct{}

	started atomic.Int32
}

func New() *Capturer {
	return &Capturer{}
}

// FailWith queues errors to be returned by subsequent Capture calls, in
// order. A nil entry means that call succeeds. Once the queue is drained,
// calls succeed.
func (c *Capturer) FailWith(errs ...error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.script = append(c.script, errs...)
}

// Hold blocks every Capture call after the constraint is recorded until
// the returned release function runs. Use Started to observe a call
// entering the held region.
func (c *Capturer) Hold() (release func()) {
	gate := make(chan struct{})
	c.mu.Lock()
	c.gate = gate
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { close(gate) })
	}
}

// Calls returns how many hardware calls have been made.
func (c *Capturer) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

// CallConstraints returns the constraints of every hardware call so far.
func (c *Capturer) CallConstraints() []capture.Constraints {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]capture.Constraints, len(c.calls))
	copy(out, c.calls)
	return out
}

// Started reports how many Capture calls have begun, including one
// currently parked behind Hold.
func (c *Capturer) Started() int {
	return int(c.started.Load())
}

func (c *Capturer) Capture(ctx context.Context, cons capture.Constraints) (capture.Source, error) {
	c.mu.Lock()
	c.calls = append(c.calls, cons)
	var next error
	scripted := false
	if len(c.script) > 0 {
		next = c.script[0]
		c.script = c.script[1:]
		scripted = true
	}
	gate := c.gate
	c.mu.Unlock()
	c.started.Inc()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if scripted && next != nil {
		return nil, next
	}
	return NewSource(cons), nil
}

// Source is the fake capture session returned on success.
type Source struct {
	constraints capture.Constraints
	tracks      []capture.Track
	closed      atomic.Bool
}

// NewSource builds a fake source with one track per enabled kind.
func NewSource(cons capture.Constraints) *Source {
	s := &Source{constraints: cons}
	if cons.Video.Enabled {
		s.tracks = append(s.tracks, newTrack(webrtc.RTPCodecTypeVideo))
	}
	if cons.Audio.Enabled {
		s.tracks = append(s.tracks, newTrack(webrtc.RTPCodecTypeAudio))
	}
	return s
}

func (s *Source) Tracks() []capture.Track {
	return s.tracks
}

func (s *Source) Close() error {
	s.closed.Store(true)
	for _, t := range s.tracks {
		t.Close()
	}
	return nil
}

// Closed reports whether the source has been released.
func (s *Source) Closed() bool {
	return s.closed.Load()
}

// Constraints returns what the source was opened with.
func (s *Source) Constraints() capture.Constraints {
	return s.constraints
}

type track struct {
	id     string
	kind   webrtc.RTPCodecType
	closed atomic.Bool
}

func newTrack(kind webrtc.RTPCodecType) *track {
	return &track{id: uuid.NewString(), kind: kind}
}

func (t *track) ID() string                { return t.id }
func (t *track) RID() string               { return "" }
func (t *track) StreamID() string          { return "capturetest" }
func (t *track) Kind() webrtc.RTPCodecType { return t.kind }

func (t *track) Bind(webrtc.TrackLocalContext) (webrtc.RTPCodecParameters, error) {
	return webrtc.RTPCodecParameters{}, nil
}

func (t *track) Unbind(webrtc.TrackLocalContext) error {
	return nil
}

func (t *track) Close() error {
	t.closed.Store(true)
	return nil
}
