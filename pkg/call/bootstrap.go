// Package call wires the media coordinator into an outgoing call: it asks
// the quality policy for a capture profile, acquires the stream, attaches
// its tracks to the peer connection, and guarantees the stream is released
// exactly once however the call ends.
package call

import (
	"context"

	"github.com/frostbyte73/core"
	"github.com/google/uuid"
	"github.com/pion/logging"
	"github.com/pion/webrtc/v4"

	"github.com/famlink/mediabroker"
	internallog "github.com/famlink/mediabroker/internal/logging"
	"github.com/famlink/mediabroker/pkg/capture"
	"github.com/famlink/mediabroker/pkg/quality"
)

// Broker is the coordinator surface the bootstrap depends on.
type Broker interface {
	Acquire(ctx context.Context, cons capture.Constraints, ownerID string) (*mediabroker.Stream, error)
	Release(ownerID string)
}

// PeerConnection is the outbound-connection surface tracks are added to.
// *webrtc.PeerConnection satisfies it.
type PeerConnection interface {
	AddTrack(track webrtc.TrackLocal) (*webrtc.RTPSender, error)
}

// Bootstrap sets up the media side of one outgoing call. It is single
// use: a failed or ended call is torn down with Close, and a manual retry
// gets a fresh Bootstrap so each attempt is a new acquire.
type Bootstrap struct {
	broker  Broker
	monitor quality.Monitor
	pc      PeerConnection
	log     logging.LeveledLogger
	ownerID string

	acquired bool
	senders  []*webrtc.RTPSender
	teardown core.Fuse
}

// BootstrapOption configures a Bootstrap.
type BootstrapOption func(*Bootstrap)

// WithOwnerID overrides the generated owner tag.
func WithOwnerID(id string) BootstrapOption {
	return func(b *Bootstrap) {
		b.ownerID = id
	}
}

// WithBootstrapLogger replaces the default scoped logger.
func WithBootstrapLogger(log logging.LeveledLogger) BootstrapOption {
	return func(b *Bootstrap) {
		b.log = log
	}
}

// NewBootstrap creates the media bootstrap for one call attempt.
func NewBootstrap(broker Broker, monitor quality.Monitor, pc PeerConnection, opts ...BootstrapOption) *Bootstrap {
	b := &Bootstrap{
		broker:  broker,
		monitor: monitor,
		pc:      pc,
		log:     internallog.NewLogger("call"),
		ownerID: uuid.NewString(),
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// OwnerID returns the owner tag this bootstrap acquires and releases with.
func (b *Bootstrap) OwnerID() string {
	return b.ownerID
}

// Senders returns the RTP senders created for the acquired tracks.
func (b *Bootstrap) Senders() []*webrtc.RTPSender {
	return b.senders
}

// Start acquires a capture stream at the quality the network supports and
// attaches its tracks to the peer connection. On failure it returns a
// *SetupError telling the UI whether the user can fix it (permission) or
// retry it (busy device); it never retries on its own. The returned
// stream is owned by the coordinator; the caller reads from it but ends
// it only through Close.
func (b *Bootstrap) Start(ctx context.Context) (*mediabroker.Stream, error) {
	snapshot := b.monitor.Snapshot()
	cons := quality.SelectConstraints(snapshot)
	b.log.Debugf("network %s (reduced=%t) selected profile %s", snapshot.Class, snapshot.ReducedData, cons)

	stream, err := b.broker.Acquire(ctx, cons, b.ownerID)
	if err != nil {
		return nil, newSetupError(err)
	}
	b.acquired = true

	if stream.Degraded() {
		b.log.Infof("call continuing audio-only, video capture was unavailable")
	}

	for _, track := range stream.GetTracks() {
		sender, err := b.pc.AddTrack(track)
		if err != nil {
			b.log.Errorf("adding track %s: %v", track.ID(), err)
			b.Close()
			return nil, newSetupError(err)
		}
		b.senders = append(b.senders, sender)
	}

	return stream, nil
}

// Close releases the acquired stream. It is safe to call from every exit
// path (call end, setup abort, component disposal); only the first call
// reaches the coordinator.
func (b *Bootstrap) Close() {
	b.teardown.Once(func() {
		if b.acquired {
			b.broker.Release(b.ownerID)
		}
	})
}
