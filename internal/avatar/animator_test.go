package avatar

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnimatorRigFrame(t *testing.T) {
	a := New(fullRig(), rand.New(rand.NewSource(1)))
	require.True(t, a.HasRig())

	out := a.Tick(FrameInput{
		Elapsed: 0.016,
		Delta:   0.016,
		Signals: Signals{AudioPlaying: true},
		Magnitudes: flatFrame(128, 200),
	})

	require.Equal(t, StateSpeaking, out.State)
	require.Equal(t, float32(1), out.Energy)
	require.Len(t, out.Joints, len(JointNames))
	require.Nil(t, out.Shape)
	require.Greater(t, out.MouthOpen, float32(0))
}

func TestAnimatorFallbackFrame(t *testing.T) {
	a := New(nil, rand.New(rand.NewSource(1)))
	require.False(t, a.HasRig())

	out := a.Tick(FrameInput{Elapsed: 0, Delta: 0.016})

	require.Equal(t, StateIdle, out.State)
	require.Nil(t, out.Joints)
	require.NotNil(t, out.Shape)
	require.Equal(t, out.Shape.ScaleX, out.Shape.ScaleZ)
}

func TestAnimatorIgnoresStaleSpectrum(t *testing.T) {
	// A magnitude frame left over from a finished clip must read as silence
	// once the playing flag drops.
	a := New(fullRig(), rand.New(rand.NewSource(1)))

	for i := 0; i < 50; i++ {
		a.Tick(FrameInput{
			Elapsed: float64(i) * 0.016, Delta: 0.016,
			Signals:    Signals{AudioPlaying: true},
			Magnitudes: flatFrame(128, 220),
		})
	}
	var out FrameOutput
	for i := 0; i < 40; i++ {
		out = a.Tick(FrameInput{
			Elapsed: float64(50+i) * 0.016, Delta: 0.016,
			Magnitudes: flatFrame(128, 220), // stale, playing=false
		})
	}

	require.Equal(t, float32(0), out.Energy)
	require.Less(t, out.MouthOpen, float32(0.01))
}

func TestAnimatorStateFollowsSignalsEveryFrame(t *testing.T) {
	a := New(fullRig(), rand.New(rand.NewSource(1)))

	out := a.Tick(FrameInput{Signals: Signals{UserTyping: true}})
	require.Equal(t, StateUserTyping, out.State)

	out = a.Tick(FrameInput{Signals: Signals{RequestInFlight: true}})
	require.Equal(t, StateAwaitingResponse, out.State)

	out = a.Tick(FrameInput{})
	require.Equal(t, StateIdle, out.State)
}
