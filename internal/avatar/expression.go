package avatar

import (
	"math/rand"
	"time"
)

const (
	blinkThreshold = 0.992 // ~0.8% trigger chance per frame
	squintEnergy   = 0.6
)

// FaceDriver maps voice energy onto the mouth-open channel and runs the
// randomized blink process. The blink trigger is deliberately memoryless: a
// fresh uniform draw every frame, no timer, so inter-blink gaps are
// geometrically distributed rather than periodic.
type FaceDriver struct {
	rig Rig
	rng *rand.Rand

	mouthOpen float32
	blink     float32
}

// NewFaceDriver returns a driver over the given rig. The random source is
// injected so tests can seed it.
func NewFaceDriver(rig Rig, rng *rand.Rand) *FaceDriver {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &FaceDriver{rig: rig, rng: rng}
}

// Update advances the mouth and blink weights one frame. energy is the
// already-extracted voice energy; playing mirrors the audio tap. When the
// rig has no expression channels the weights still advance (so state stays
// consistent) but nothing is written.
func (fd *FaceDriver) Update(playing bool, energy float32) {
	if playing {
		fd.mouthOpen = Lerp(fd.mouthOpen, energy, 0.4)
		if energy > squintEnergy {
			// Squint on loud speech, overriding the blink process.
			fd.blink = Lerp(fd.blink, 0.5, 0.2)
		} else {
			fd.blink = Lerp(fd.blink, 0, 0.2)
		}
	} else {
		fd.mouthOpen = Lerp(fd.mouthOpen, 0, 0.2)
		if fd.rng.Float64() > blinkThreshold {
			fd.blink = 1
		} else {
			fd.blink = Lerp(fd.blink, 0, 0.2)
		}
	}

	if fd.rig == nil || !fd.rig.HasExpressions() {
		return
	}
	fd.rig.SetExpression(ExprMouthOpen, fd.mouthOpen)
	fd.rig.SetExpression(ExprBlink, fd.blink)
}

// MouthOpen returns the current mouth-open weight.
func (fd *FaceDriver) MouthOpen() float32 { return fd.mouthOpen }

// Blink returns the current blink weight.
func (fd *FaceDriver) Blink() float32 { return fd.blink }
