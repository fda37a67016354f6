package avatar

import "math"

// Idle micro-motion: low-amplitude waveforms layered under the idle pose so
// the character never sits perfectly still. Both are pure functions of the
// shared elapsed-time clock, which keeps every waveform phase-consistent
// across the session.

// Breathe is the breathing oscillation applied to the spine pitch.
func Breathe(t float64) float32 {
	return float32(math.Sin(t*2.0)) * 0.04
}

// Drift is the slower sway applied to head yaw and spine/hips roll.
func Drift(t float64) float32 {
	return float32(math.Sin(t*0.5)) * 0.02
}
