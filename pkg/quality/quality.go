// Package quality maps an observed network condition to the capture
// profile a call should open with. The mapping is a pure function: no
// state, no I/O, and every input yields a usable profile.
package quality

import (
	"fmt"

	"github.com/famlink/mediabroker/pkg/capture"
)

// ConnectionClass is a coarse effective-bandwidth bucket reported by the
// network-quality collaborator. Classes are ordered worst to best.
type ConnectionClass int

const (
	ClassPoor ConnectionClass = iota
	ClassFair
	ClassGood
)

func (c ConnectionClass) String() string {
	switch c {
	case ClassPoor:
		return "poor"
	case ClassFair:
		return "fair"
	case ClassGood:
		return "good"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// Network is a best-effort snapshot of current conditions. ReducedData is
// the user's data-saver preference, not a measurement.
type Network struct {
	Class       ConnectionClass
	ReducedData bool
}

// Monitor is the read-only boundary to the network-quality collaborator.
// There is no feedback path from this package back to it.
type Monitor interface {
	Snapshot() Network
}

// StaticMonitor is a Monitor that always reports the same snapshot.
// Useful as a default and in tests.
type StaticMonitor Network

func (m StaticMonitor) Snapshot() Network {
	return Network(m)
}

// SelectConstraints maps a network snapshot to a capture profile.
// Reduced-data mode wins over any measured class: it drops to audio-only
// so the call never spends video bandwidth the user opted out of.
// Unrecognized classes clamp to the lowest video tier.
func SelectConstraints(n Network) capture.Constraints {
	audio := capture.AudioConstraints{
		Enabled:          true,
		EchoCancellation: true,
		NoiseSuppression: true,
	}

	if n.ReducedData {
		return capture.Constraints{Audio: audio}
	}

	var tier capture.ResolutionTier
	switch n.Class {
	case ClassGood:
		tier = capture.TierHigh
	case ClassFair:
		tier = capture.TierMedium
	default:
		tier = capture.TierLow
	}

	return capture.Constraints{
		Video: capture.VideoConstraints{Enabled: true, Tier: tier},
		Audio: audio,
	}
}
