// Package mediabroker coordinates access to the device camera and
// microphone for the calling feature. The capture hardware is a singleton
// exclusive resource with no locking primitive of its own, so the broker
// serializes acquisition: concurrent requests coalesce onto one hardware
// call, an open stream is reused by compatible requests, and a failed
// video acquisition is retried once as audio-only before being denied.
package mediabroker

import (
	"sync"
	"time"

	"github.com/pion/logging"
	"go.uber.org/atomic"

	internallog "github.com/famlink/mediabroker/internal/logging"
	"github.com/famlink/mediabroker/pkg/capture"
)

const defaultCaptureTimeout = 10 * time.Second

// Coordinator is the process-wide broker for the capture resource. All
// methods are safe for concurrent use. Exactly one Coordinator should
// exist per device.
type Coordinator struct {
	capturer capture.Capturer
	timeout  time.Duration
	log      logging.LeveledLogger

	mu      sync.Mutex
	state   LockState
	waiters []chan acquireResult
	held    *Stream
	owner   string

	attempts  atomic.Uint32
	reuses    atomic.Uint32
	coalesced atomic.Uint32
}

type acquireResult struct {
	stream *Stream
	err    error
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithCaptureTimeout bounds each hardware capture call. Expiry is
// classified as the device being unavailable.
func WithCaptureTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		c.timeout = d
	}
}

// WithLogger replaces the default scoped logger.
func WithLogger(log logging.LeveledLogger) Option {
	return func(c *Coordinator) {
		c.log = log
	}
}

// New creates a Coordinator over the given capture backend.
func New(capturer capture.Capturer, opts ...Option) *Coordinator {
	c := &Coordinator{
		capturer: capturer,
		timeout:  defaultCaptureTimeout,
		log:      internallog.NewLogger("broker"),
		state:    StateIdle,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Stats are cumulative broker counters.
type Stats struct {
	// CaptureAttempts counts hardware capture calls, including degraded
	// retries.
	CaptureAttempts uint32
	// Reuses counts acquires served from an already-held stream.
	Reuses uint32
	// Coalesced counts acquires that joined an in-flight acquisition.
	Coalesced uint32
}

// Stats returns a snapshot of the broker counters.
func (c *Coordinator) Stats() Stats {
	return Stats{
		CaptureAttempts: c.attempts.Load(),
		Reuses:          c.reuses.Load(),
		Coalesced:       c.coalesced.Load(),
	}
}
