package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/famlink/mediabroker/pkg/capture"
)

func TestSelectConstraintsMapsClassToTier(t *testing.T) {
	cases := []struct {
		name  string
		class ConnectionClass
		tier  capture.ResolutionTier
	}{
		{"poor", ClassPoor, capture.TierLow},
		{"fair", ClassFair, capture.TierMedium},
		{"good", ClassGood, capture.TierHigh},
		{"unknown class clamps low", ConnectionClass(42), capture.TierLow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cons := SelectConstraints(Network{Class: tc.class})
			assert.True(t, cons.Video.Enabled)
			assert.Equal(t, tc.tier, cons.Video.Tier)
			assert.True(t, cons.Audio.Enabled)
			assert.True(t, cons.Audio.EchoCancellation)
			assert.True(t, cons.Audio.NoiseSuppression)
		})
	}
}

func TestReducedDataForcesAudioOnly(t *testing.T) {
	for _, class := range []ConnectionClass{ClassPoor, ClassFair, ClassGood} {
		cons := SelectConstraints(Network{Class: class, ReducedData: true})
		assert.False(t, cons.Video.Enabled, "class %s", class)
		assert.True(t, cons.Audio.Enabled)
	}
}

func TestSelectConstraintsIsDeterministic(t *testing.T) {
	n := Network{Class: ClassFair}
	assert.Equal(t, SelectConstraints(n), SelectConstraints(n))
}

func TestStaticMonitor(t *testing.T) {
	m := StaticMonitor{Class: ClassGood, ReducedData: true}
	assert.Equal(t, Network{Class: ClassGood, ReducedData: true}, m.Snapshot())
}
