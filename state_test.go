package mediabroker

import "testing"

func TestLockStateTransitions(t *testing.T) {
	s := StateIdle

	if err := s.Update(StateAcquiring, noop); err != nil {
		t.Fatal(err)
	}
	if s != StateAcquiring {
		t.Fatalf("expected %s, got %s", StateAcquiring, s)
	}

	if err := s.Update(StateHeld, noop); err != nil {
		t.Fatal(err)
	}
	if s != StateHeld {
		t.Fatalf("expected %s, got %s", StateHeld, s)
	}

	if err := s.Update(StateIdle, noop); err != nil {
		t.Fatal(err)
	}
	if s != StateIdle {
		t.Fatalf("expected %s, got %s", StateIdle, s)
	}
}

func TestLockStateRejectsDoubleAcquire(t *testing.T) {
	s := StateAcquiring
	if err := s.Update(StateAcquiring, noop); err == nil {
		t.Fatal("expected acquiring -> acquiring to be rejected")
	}
	if s != StateAcquiring {
		t.Fatalf("state changed on rejected transition: %s", s)
	}
}

func TestLockStateRejectsHeldWithoutAcquire(t *testing.T) {
	s := StateIdle
	if err := s.Update(StateHeld, noop); err == nil {
		t.Fatal("expected idle -> held to be rejected")
	}
}

func TestLockStateKeepsStateWhenFuncFails(t *testing.T) {
	s := StateIdle
	fail := func() error { return errBoom }
	if err := s.Update(StateAcquiring, fail); err == nil {
		t.Fatal("expected error from transition func")
	}
	if s != StateIdle {
		t.Fatalf("state advanced despite failing func: %s", s)
	}
}
