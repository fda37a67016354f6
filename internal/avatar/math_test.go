package avatar

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLerpConverges(t *testing.T) {
	for _, factor := range []float32{0.02, 0.1, 0.5, 1.0} {
		current, target := float32(-2.0), float32(3.0)
		prevDist := float64(math.Abs(float64(target - current)))

		for i := 0; i < 500; i++ {
			current = Lerp(current, target, factor)
			dist := math.Abs(float64(target - current))
			require.LessOrEqual(t, dist, prevDist, "factor %v must not oscillate", factor)
			prevDist = dist
		}
		require.InDelta(t, target, current, 1e-3)
	}
}

func TestLerpStepBound(t *testing.T) {
	// A retarget moves at most factor * distance in a single step.
	current, factor := float32(0.5), float32(0.1)
	target := float32(5.0)

	next := Lerp(current, target, factor)
	step := math.Abs(float64(next - current))
	bound := float64(factor) * math.Abs(float64(target-current))
	require.LessOrEqual(t, step, bound+1e-6)
}

func TestLerpIdentityAtTarget(t *testing.T) {
	require.Equal(t, float32(1.5), Lerp(1.5, 1.5, 0.3))
}
