package avatar

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func flatFrame(n int, v byte) []byte {
	frame := make([]byte, n)
	for i := range frame {
		frame[i] = v
	}
	return frame
}

func TestEnergyClamped(t *testing.T) {
	require.Equal(t, float32(0), RigEnvelope.Energy(flatFrame(128, 0)))
	require.Equal(t, float32(1), RigEnvelope.Energy(flatFrame(128, 255)))
	require.Equal(t, float32(0), FallbackEnvelope.Energy(flatFrame(128, 0)))
	require.Equal(t, float32(1), FallbackEnvelope.Energy(flatFrame(128, 255)))
}

func TestEnergyLoudSpeechSaturates(t *testing.T) {
	// avg 200 over bins [2,30): 200/255*3.5 > 1, clamps to exactly 1.
	require.Equal(t, float32(1), RigEnvelope.Energy(flatFrame(128, 200)))
}

func TestEnergyMidRange(t *testing.T) {
	got := RigEnvelope.Energy(flatFrame(128, 50))
	want := float32(50) / 255 * 3.5
	require.InDelta(t, want, got, 1e-5)
	require.Greater(t, got, float32(0))
	require.Less(t, got, float32(1))
}

func TestEnergyMissingTap(t *testing.T) {
	require.Equal(t, float32(0), RigEnvelope.Energy(nil))
	require.Equal(t, float32(0), RigEnvelope.Energy([]byte{10, 20}))
}

func TestEnergyShortFrameUsesAvailableBins(t *testing.T) {
	// Frame shorter than the window: only the bins that exist contribute.
	frame := make([]byte, 10)
	for i := 2; i < 10; i++ {
		frame[i] = 255
	}
	require.Equal(t, float32(1), RigEnvelope.Energy(frame))
}
