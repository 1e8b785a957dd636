package mediabroker

import (
	"github.com/google/uuid"
	"github.com/pion/webrtc/v4"

	"github.com/famlink/mediabroker/pkg/capture"
)

// Stream is the handle to the open capture session. Borrowers hold it by
// reference and read tracks from it; they must not stop the tracks
// themselves. The hardware is freed only through the coordinator's
// Release, which is why Stream has no public close.
type Stream struct {
	id          string
	source      capture.Source
	constraints capture.Constraints
	degraded    bool
}

func newStream(source capture.Source, constraints capture.Constraints, degraded bool) *Stream {
	return &Stream{
		id:          uuid.NewString(),
		source:      source,
		constraints: constraints,
		degraded:    degraded,
	}
}

// ID returns the handle's unique identifier.
func (s *Stream) ID() string {
	return s.id
}

// Degraded reports whether this stream was opened with the video fallback,
// i.e. the caller asked for video but got audio-only.
func (s *Stream) Degraded() bool {
	return s.degraded
}

// Constraints returns the profile the stream was actually opened with.
// For a degraded stream this differs from what the caller requested.
func (s *Stream) Constraints() capture.Constraints {
	return s.constraints
}

// GetTracks returns all tracks of the open session.
func (s *Stream) GetTracks() []capture.Track {
	return s.source.Tracks()
}

// GetVideoTracks returns the session's video tracks.
func (s *Stream) GetVideoTracks() []capture.Track {
	return s.queryTracks(webrtc.RTPCodecTypeVideo)
}

// GetAudioTracks returns the session's audio tracks.
func (s *Stream) GetAudioTracks() []capture.Track {
	return s.queryTracks(webrtc.RTPCodecTypeAudio)
}

func (s *Stream) queryTracks(kind webrtc.RTPCodecType) []capture.Track {
	result := make([]capture.Track, 0)
	for _, t := range s.source.Tracks() {
		if t.Kind() == kind {
			result = append(result, t)
		}
	}
	return result
}

func (s *Stream) close() error {
	return s.source.Close()
}
