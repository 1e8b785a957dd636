// Package webcam is the real capture backend, built on pion/mediadevices.
// It opens the device camera and microphone through GetUserMedia and maps
// the platform's error vocabulary onto the broker's failure taxonomy.
package webcam

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/pion/logging"
	"github.com/pion/mediadevices"
	"github.com/pion/mediadevices/pkg/codec/opus"
	"github.com/pion/mediadevices/pkg/codec/vpx"
	"github.com/pion/mediadevices/pkg/driver/availability"
	"github.com/pion/mediadevices/pkg/prop"

	// Register the hardware adapters.
	_ "github.com/pion/mediadevices/pkg/driver/camera"
	_ "github.com/pion/mediadevices/pkg/driver/microphone"

	internallog "github.com/famlink/mediabroker/internal/logging"
	"github.com/famlink/mediabroker/pkg/capture"
)

const audioBitRate = 32_000

// Capturer implements capture.Capturer over the local camera and
// microphone.
type Capturer struct {
	selector *mediadevices.CodecSelector
	log      logging.LeveledLogger
}

// New builds the webcam capturer with VP8 video and opus audio encoders.
func New() (*Capturer, error) {
	opusParams, err := opus.NewParams()
	if err != nil {
		return nil, err
	}
	opusParams.BitRate = audioBitRate

	vp8Params, err := vpx.NewVP8Params()
	if err != nil {
		return nil, err
	}
	vp8Params.BitRate = capture.TierMedium.BitRate()

	return &Capturer{
		selector: mediadevices.NewCodecSelector(
			mediadevices.WithVideoEncoders(&vp8Params),
			mediadevices.WithAudioEncoders(&opusParams),
		),
		log: internallog.NewLogger("webcam"),
	}, nil
}

// CodecSelector exposes the selector so the peer connection's media
// engine can be populated with the same codecs.
func (c *Capturer) CodecSelector() *mediadevices.CodecSelector {
	return c.selector
}

// Capture opens the devices matching cons. GetUserMedia has no
// cancellation, so the call runs in a goroutine and a result arriving
// after ctx expired is closed instead of returned.
func (c *Capturer) Capture(ctx context.Context, cons capture.Constraints) (capture.Source, error) {
	mdc := mediadevices.MediaStreamConstraints{Codec: c.selector}
	if cons.Video.Enabled {
		width, height := cons.Video.Tier.Dimensions()
		mdc.Video = func(mt *mediadevices.MediaTrackConstraints) {
			mt.Width = prop.Int(width)
			mt.Height = prop.Int(height)
		}
	}
	if cons.Audio.Enabled {
		// Echo cancellation and noise suppression are handled by the
		// platform's audio pipeline; GetUserMedia exposes no knob for
		// them here.
		mdc.Audio = func(*mediadevices.MediaTrackConstraints) {}
	}

	type result struct {
		stream mediadevices.MediaStream
		err    error
	}
	done := make(chan result, 1)
	go func() {
		stream, err := mediadevices.GetUserMedia(mdc)
		done <- result{stream, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			c.log.Infof("capture failed: %v", r.err)
			return nil, classify(r.err)
		}
		return &source{stream: r.stream}, nil
	case <-ctx.Done():
		go func() {
			if r := <-done; r.stream != nil {
				closeStream(r.stream)
			}
		}()
		return nil, capture.NewError(capture.ReasonDeviceUnavailable, ctx.Err())
	}
}

// classify folds mediadevices/driver errors into the broker taxonomy. A
// driver that cannot be found or opened counts as the device being
// unavailable; only explicit permission refusals are unrecoverable.
func classify(err error) error {
	switch {
	case errors.Is(err, os.ErrPermission):
		return capture.NewError(capture.ReasonPermissionDenied, err)
	case errors.Is(err, availability.ErrBusy),
		errors.Is(err, availability.ErrNoDevice),
		strings.Contains(err.Error(), "failed to find the best driver"):
		return capture.NewError(capture.ReasonDeviceUnavailable, err)
	default:
		return capture.NewError(capture.ReasonUnknown, err)
	}
}

type source struct {
	stream mediadevices.MediaStream
}

func (s *source) Tracks() []capture.Track {
	tracks := s.stream.GetTracks()
	out := make([]capture.Track, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, t)
	}
	return out
}

func (s *source) Close() error {
	closeStream(s.stream)
	return nil
}

func closeStream(stream mediadevices.MediaStream) {
	for _, t := range stream.GetTracks() {
		t.Close()
	}
}
