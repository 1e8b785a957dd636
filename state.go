package mediabroker

import "fmt"

// LockState represents the coordinator's capture-resource state.
type LockState string

const (
	// StateIdle means no stream is open and no acquisition is running.
	StateIdle LockState = "idle"
	// StateAcquiring means exactly one hardware acquisition is in flight.
	// Requests arriving in this state join it instead of starting another.
	StateAcquiring LockState = "acquiring"
	// StateHeld means a capture stream is open and owned by the
	// coordinator on behalf of a tagged owner.
	StateHeld LockState = "held"
)

// Update moves the state to next after validating the transition, then
// runs f. If either the transition is invalid or f fails, the state stays
// unchanged.
func (s *LockState) Update(next LockState, f func() error) error {
	checks := map[LockState]func() error{
		StateIdle:      s.toIdle,
		StateAcquiring: s.toAcquiring,
		StateHeld:      s.toHeld,
	}

	if err := checks[next](); err != nil {
		return err
	}

	if err := f(); err != nil {
		return err
	}
	*s = next
	return nil
}

func (s *LockState) toIdle() error {
	if *s == StateIdle {
		return fmt.Errorf("invalid state: already idle")
	}
	return nil
}

func (s *LockState) toAcquiring() error {
	if *s != StateIdle {
		return fmt.Errorf("invalid state: an acquisition is already in flight or a stream is held")
	}
	return nil
}

func (s *LockState) toHeld() error {
	if *s != StateAcquiring {
		return fmt.Errorf("invalid state: no acquisition in flight")
	}
	return nil
}
