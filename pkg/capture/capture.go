// Package capture defines the boundary between the media coordinator and
// the platform capture API: the constraint profile a caller asks for, the
// Capturer a backend implements, and the failure taxonomy every backend
// error is classified into.
package capture

import (
	"context"

	"github.com/pion/webrtc/v4"
)

// Track is a single live media track produced by a capture backend. It is
// sendable over a peer connection as-is. Close stops the underlying device
// track; only the coordinator that opened the source may call it.
type Track interface {
	webrtc.TrackLocal
	Close() error
}

// Source is one open capture session: the set of tracks a single hardware
// acquisition produced. Closing a source frees the device.
type Source interface {
	Tracks() []Track
	Close() error
}

// Capturer is the single outbound capability the coordinator needs from a
// platform: open a capture session matching the constraints or fail with a
// classifiable error. Implementations do not need to serialize calls; the
// coordinator guarantees at most one Capture is in flight at a time.
type Capturer interface {
	Capture(ctx context.Context, c Constraints) (Source, error)
}
