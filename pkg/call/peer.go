package call

import (
	"github.com/pion/interceptor"
	"github.com/pion/mediadevices"
	"github.com/pion/webrtc/v4"
)

// NewPeerConnection builds a peer connection whose media engine knows the
// codecs the capture backend encodes with. Pass the same selector the
// webcam capturer was built around so negotiated and captured codecs
// match.
func NewPeerConnection(config webrtc.Configuration, selector *mediadevices.CodecSelector) (*webrtc.PeerConnection, error) {
	mediaEngine := webrtc.MediaEngine{}
	selector.Populate(&mediaEngine)

	registry := &interceptor.Registry{}
	if err := webrtc.RegisterDefaultInterceptors(&mediaEngine, registry); err != nil {
		return nil, err
	}

	api := webrtc.NewAPI(
		webrtc.WithMediaEngine(&mediaEngine),
		webrtc.WithInterceptorRegistry(registry),
	)
	return api.NewPeerConnection(config)
}
