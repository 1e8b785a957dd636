package mediabroker

import (
	"context"

	"github.com/famlink/mediabroker/pkg/capture"
)

var noop = func() error { return nil }

// Acquire returns the capture stream for the given constraints, owned on
// behalf of ownerID.
//
// If an acquisition is already in flight the call joins it: no second
// hardware call is made, the in-flight request's constraints win, and
// every joined caller receives the identical terminal result in arrival
// order. If a stream is already held and the request is compatible (it
// asks for no media kind the open stream lacks) the held handle is
// returned as-is. An incompatible request releases the held stream first
// and acquires fresh.
//
// The first requester's ownerID is recorded as the stream owner. ctx
// bounds only this caller's hardware calls; a parked joiner waits for the
// in-flight attempt to resolve regardless of its own ctx, since the
// platform call cannot be aborted mid-flight.
func (c *Coordinator) Acquire(ctx context.Context, cons capture.Constraints, ownerID string) (*Stream, error) {
	c.mu.Lock()

	switch c.state {
	case StateAcquiring:
		ch := make(chan acquireResult, 1)
		c.waiters = append(c.waiters, ch)
		c.mu.Unlock()
		c.coalesced.Inc()
		c.log.Debugf("owner %q joined in-flight acquisition", ownerID)
		r := <-ch
		return r.stream, r.err

	case StateHeld:
		if cons.SubsetOf(c.held.constraints) {
			s := c.held
			c.mu.Unlock()
			c.reuses.Inc()
			c.log.Debugf("owner %q reusing held stream %s", ownerID, s.ID())
			return s, nil
		}
		c.log.Infof("owner %q requested %s, held stream is %s, reacquiring", ownerID, cons, c.held.constraints)
		c.closeHeldLocked()
	}

	// Idle. The transition to acquiring happens before the mutex is
	// dropped, so no second caller can observe idle while our hardware
	// call runs.
	if err := c.state.Update(StateAcquiring, noop); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.mu.Unlock()

	c.log.Debugf("owner %q starting acquisition: %s", ownerID, cons)
	a := &acquisition{
		capturer:  c.capturer,
		timeout:   c.timeout,
		log:       c.log,
		onAttempt: func() { c.attempts.Inc() },
	}
	g, err := a.run(ctx, cons)

	var res acquireResult
	c.mu.Lock()
	if err != nil {
		_ = c.state.Update(StateIdle, noop)
		res = acquireResult{err: err}
		c.log.Infof("acquisition denied for owner %q: %v", ownerID, err)
	} else {
		stream := newStream(g.source, g.constraints, g.degraded)
		_ = c.state.Update(StateHeld, noop)
		c.held = stream
		c.owner = ownerID
		res = acquireResult{stream: stream}
		c.log.Infof("stream %s granted to owner %q (degraded=%t)", stream.ID(), ownerID, g.degraded)
	}
	waiters := c.waiters
	c.waiters = nil
	c.mu.Unlock()

	for _, ch := range waiters {
		ch <- res
	}
	return res.stream, res.err
}

// Release frees the capture hardware if ownerID matches the recorded
// stream owner. A stale or mismatched owner is a no-op, not an error:
// duplicate teardown from components that lost the race is expected. If
// no owner was recorded the release is permissive.
func (c *Coordinator) Release(ownerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateHeld {
		return
	}
	if c.owner != "" && ownerID != "" && c.owner != ownerID {
		c.log.Debugf("ignoring release from %q, stream owned by %q", ownerID, c.owner)
		return
	}
	c.closeHeldLocked()
}

// CurrentStream returns the held stream, or nil when none is open.
func (c *Coordinator) CurrentStream() *Stream {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.held
}

func (c *Coordinator) closeHeldLocked() {
	if c.held != nil {
		c.log.Debugf("releasing stream %s held by %q", c.held.ID(), c.owner)
		if err := c.held.close(); err != nil {
			c.log.Warnf("closing capture source: %v", err)
		}
	}
	c.held = nil
	c.owner = ""
	_ = c.state.Update(StateIdle, noop)
}
