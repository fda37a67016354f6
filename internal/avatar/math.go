package avatar

import "github.com/go-gl/mathgl/mgl32"

// Lerp advances current toward target by the given factor. Every
// continuously varying quantity in the animator goes through here; the
// factor is the single tuning knob for how quickly a value settles.
// Factor is expected in (0,1]; callers own that contract.
func Lerp(current, target, factor float32) float32 {
	return current + (target-current)*factor
}

// Lerp3 applies Lerp per axis.
func Lerp3(current, target mgl32.Vec3, factor float32) mgl32.Vec3 {
	return mgl32.Vec3{
		Lerp(current[0], target[0], factor),
		Lerp(current[1], target[1], factor),
		Lerp(current[2], target[2], factor),
	}
}

func clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
