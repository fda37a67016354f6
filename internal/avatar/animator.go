package avatar

import (
	"math/rand"
)

// FrameInput is everything the animator reads for one frame: the shared
// clock, the conversational signals, and a snapshot of the audio tap. All
// fields are owned by the caller and never retained past the tick.
type FrameInput struct {
	Elapsed float64 // monotonic seconds since animation start
	Delta   float64 // seconds since the previous frame

	Signals    Signals
	Magnitudes []byte // frequency magnitudes, nil when nothing is playing
}

// JointFrame is one joint's rotation in the frame output.
type JointFrame struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// ShapeFrame is the fallback shape's state in the frame output.
type ShapeFrame struct {
	ScaleX float32 `json:"scaleX"`
	ScaleY float32 `json:"scaleY"`
	ScaleZ float32 `json:"scaleZ"`
	ColorR float32 `json:"colorR"`
	ColorG float32 `json:"colorG"`
	ColorB float32 `json:"colorB"`
	FloatY float32 `json:"floatY"`
	Yaw    float32 `json:"yaw"`
}

// FrameOutput is the fully advanced pose for one frame, ready to hand to a
// renderer.
type FrameOutput struct {
	State     ConversationalState   `json:"state"`
	Energy    float32               `json:"energy"`
	Joints    map[string]JointFrame `json:"joints,omitempty"`
	MouthOpen float32               `json:"mouthOpen"`
	Blink     float32               `json:"blink"`
	Shape     *ShapeFrame           `json:"shape,omitempty"`
}

// Animator owns every current value the animation mutates: joint rotations
// (through the rig), expression weights, and the fallback shape. Tick is
// the single entry point and the only mutator; it must be called from one
// goroutine, once per rendered frame. Nothing in here blocks.
type Animator struct {
	rig   Rig
	pose  *PoseController
	face  *FaceDriver
	shape *ShapeDriver
}

// New builds an animator for the given rig. A nil rig selects the fallback
// shape driver. The random source feeds the blink process and is injected
// so tests can seed it.
func New(rig Rig, rng *rand.Rand) *Animator {
	a := &Animator{rig: rig}
	if rig != nil {
		a.pose = NewPoseController(rig)
		a.face = NewFaceDriver(rig, rng)
	} else {
		a.face = NewFaceDriver(nil, rng)
		a.shape = NewShapeDriver()
	}
	return a
}

// HasRig reports whether a humanoid rig is being animated.
func (a *Animator) HasRig() bool { return a.rig != nil }

// Tick advances the whole animation one frame and returns the resulting
// pose. If a state changed since the last frame the smoothing simply
// retargets; there is no cancel primitive because lerp easing makes any
// retarget implicitly cancel the previous one.
func (a *Animator) Tick(in FrameInput) FrameOutput {
	state := DeriveState(in.Signals)

	var magnitudes []byte
	if in.Signals.AudioPlaying {
		magnitudes = in.Magnitudes
	}

	out := FrameOutput{State: state}

	if a.rig != nil {
		energy := RigEnvelope.Energy(magnitudes)
		a.pose.Update(state, in.Elapsed)
		a.face.Update(in.Signals.AudioPlaying, energy)

		out.Energy = energy
		out.MouthOpen = a.face.MouthOpen()
		out.Blink = a.face.Blink()
		out.Joints = make(map[string]JointFrame, len(JointNames))
		for _, name := range JointNames {
			joint, ok := a.rig.Joint(name)
			if !ok {
				continue
			}
			out.Joints[string(name)] = JointFrame{
				X: joint.Rotation[0],
				Y: joint.Rotation[1],
				Z: joint.Rotation[2],
			}
		}
		return out
	}

	energy := FallbackEnvelope.Energy(magnitudes)
	a.shape.Update(in.Elapsed, in.Delta, energy)
	a.face.Update(in.Signals.AudioPlaying, energy)

	out.Energy = energy
	out.MouthOpen = a.face.MouthOpen()
	out.Blink = a.face.Blink()
	scale := a.shape.Scale()
	color := a.shape.Color()
	out.Shape = &ShapeFrame{
		ScaleX: scale[0],
		ScaleY: scale[1],
		ScaleZ: scale[2],
		ColorR: color[0],
		ColorG: color[1],
		ColorB: color[2],
		FloatY: a.shape.FloatY(),
		Yaw:    a.shape.Yaw(),
	}
	return out
}
