package avatar

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Fallback shape colors: a calm base and a hotter tint cross-faded in when
// the voice gets loud.
var (
	fallbackBaseColor = mgl32.Vec3{0.31, 0.76, 0.97}
	fallbackLoudColor = mgl32.Vec3{0.97, 0.42, 0.58}
)

const (
	fallbackColorSwitch = 0.2 // energy above this picks the loud color
	fallbackSpinRate    = 0.6 // rad/s constant yaw spin
)

// ShapeDriver animates the placeholder primitive shown when no rig is
// loaded: volume-preserving squash/stretch from voice energy, a two-color
// cross-fade, a continuous idle float and a slow spin. Snappier smoothing
// than the rig since this is a reactive shape, not an anthropomorphic pose.
type ShapeDriver struct {
	scale  mgl32.Vec3
	color  mgl32.Vec3
	floatY float32
	yaw    float32
}

// NewShapeDriver returns a driver at rest scale and base color.
func NewShapeDriver() *ShapeDriver {
	return &ShapeDriver{
		scale: mgl32.Vec3{1, 1, 1},
		color: fallbackBaseColor,
	}
}

// Update advances the shape one frame. The idle float and spin run
// regardless of audio; the squash/stretch and color react to energy.
func (sd *ShapeDriver) Update(t, dt float64, energy float32) {
	targetScaleY := 1 + energy*0.5
	sd.scale[1] = Lerp(sd.scale[1], targetScaleY, 0.2)

	// Volume preservation uses the already-smoothed current Y, not the
	// target, so the horizontal axes match what is actually on screen.
	inv := 1 / float32(math.Sqrt(float64(sd.scale[1])))
	sd.scale[0] = inv
	sd.scale[2] = inv

	targetColor := fallbackBaseColor
	if energy > fallbackColorSwitch {
		targetColor = fallbackLoudColor
	}
	sd.color = Lerp3(sd.color, targetColor, 0.15)

	sd.floatY = float32(math.Sin(t*2.0))*0.2 + 0.5
	sd.yaw += float32(dt) * fallbackSpinRate
}

// Scale returns the current non-uniform scale.
func (sd *ShapeDriver) Scale() mgl32.Vec3 { return sd.scale }

// Color returns the current material color.
func (sd *ShapeDriver) Color() mgl32.Vec3 { return sd.color }

// FloatY returns the vertical float offset.
func (sd *ShapeDriver) FloatY() float32 { return sd.floatY }

// Yaw returns the accumulated spin angle.
func (sd *ShapeDriver) Yaw() float32 { return sd.yaw }
