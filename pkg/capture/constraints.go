package capture

import "fmt"

// ResolutionTier is an ordered capture quality level. Higher tiers request
// larger frames and more bandwidth from the device.
type ResolutionTier int

const (
	TierLow ResolutionTier = iota
	TierMedium
	TierHigh
)

func (t ResolutionTier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Dimensions returns the frame size a tier asks the device for. Tiers
// outside the known range clamp to the lowest profile.
func (t ResolutionTier) Dimensions() (width, height int) {
	switch t {
	case TierHigh:
		return 1280, 720
	case TierMedium:
		return 640, 480
	default:
		return 320, 240
	}
}

// BitRate returns the target video bitrate in bps for a tier.
func (t ResolutionTier) BitRate() int {
	switch t {
	case TierHigh:
		return 1_000_000
	case TierMedium:
		return 400_000
	default:
		return 150_000
	}
}

// VideoConstraints describes the video half of a capture request.
type VideoConstraints struct {
	Enabled bool
	Tier    ResolutionTier
}

// AudioConstraints describes the audio half of a capture request.
type AudioConstraints struct {
	Enabled          bool
	EchoCancellation bool
	NoiseSuppression bool
}

// Constraints is an immutable capture profile. Values are passed and
// compared by value; mutating helpers return copies.
type Constraints struct {
	Video VideoConstraints
	Audio AudioConstraints
}

// WithoutVideo returns a copy of c with video capture disabled. Audio
// settings are untouched.
func (c Constraints) WithoutVideo() Constraints {
	c.Video.Enabled = false
	return c
}

// SubsetOf reports whether a stream opened with open can serve a request
// for c. Only track enablement is compared: a request is a subset when it
// does not ask for a kind of media the open stream lacks. Resolution tier
// is deliberately ignored so that callers joining an established call do
// not force a hardware reopen over frame size.
func (c Constraints) SubsetOf(open Constraints) bool {
	if c.Video.Enabled && !open.Video.Enabled {
		return false
	}
	if c.Audio.Enabled && !open.Audio.Enabled {
		return false
	}
	return true
}

func (c Constraints) String() string {
	video := "off"
	if c.Video.Enabled {
		video = c.Video.Tier.String()
	}
	audio := "off"
	if c.Audio.Enabled {
		audio = "on"
	}
	return fmt.Sprintf("video=%s audio=%s", video, audio)
}
