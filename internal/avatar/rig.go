// Package avatar implements the per-frame animation core: the conversational
// pose controller, lip-sync and blink driver, idle micro-motion, and the
// audio-reactive fallback shape used when no humanoid rig is loaded.
package avatar

import (
	"github.com/go-gl/mathgl/mgl32"
)

// JointName identifies a rotatable node in a humanoid rig.
type JointName string

const (
	JointHips          JointName = "Hips"
	JointSpine         JointName = "Spine"
	JointNeck          JointName = "Neck"
	JointHead          JointName = "Head"
	JointLeftUpperArm  JointName = "LeftUpperArm"
	JointLeftLowerArm  JointName = "LeftLowerArm"
	JointLeftHand      JointName = "LeftHand"
	JointRightUpperArm JointName = "RightUpperArm"
	JointRightLowerArm JointName = "RightLowerArm"
	JointRightHand     JointName = "RightHand"
)

// JointNames is the closed set of joints the pose controller drives.
var JointNames = []JointName{
	JointHips,
	JointSpine,
	JointNeck,
	JointHead,
	JointLeftUpperArm,
	JointLeftLowerArm,
	JointLeftHand,
	JointRightUpperArm,
	JointRightLowerArm,
	JointRightHand,
}

// Expression channel names. These match the morph-target naming of the
// shipped models; rigs without them report HasExpressions() == false.
const (
	ExprMouthOpen = "mouthOpen"
	ExprBlink     = "blink"
)

// JointHandle holds the live rotation of a single rig joint in radians.
type JointHandle struct {
	Name     JointName
	Rotation mgl32.Vec3
}

// Rig is the loaded skeletal/expression structure driving a character.
// A nil Rig means no model is loaded and the fallback shape is animated
// instead.
type Rig interface {
	// Joint returns the handle for a named joint, or false when the loaded
	// model has no such node. Partial rigs are expected, not an error.
	Joint(name JointName) (*JointHandle, bool)

	// HasExpressions reports whether the rig carries any expression
	// channels. When false, expression writes are silently dropped.
	HasExpressions() bool

	// SetExpression sets a named expression weight in [0,1]. Unknown
	// channels are ignored.
	SetExpression(name string, weight float32)

	// Expression returns the current weight of a named channel, 0 when the
	// channel does not exist.
	Expression(name string) float32
}

// HumanoidRig is a Rig backed by joint and morph-channel tables, typically
// built by the rig loader from a glTF document.
type HumanoidRig struct {
	joints      map[JointName]*JointHandle
	expressions map[string]float32
}

// NewHumanoidRig builds a rig exposing the given joints and expression
// channels. Either set may be empty.
func NewHumanoidRig(joints []JointName, expressions []string) *HumanoidRig {
	r := &HumanoidRig{
		joints:      make(map[JointName]*JointHandle, len(joints)),
		expressions: make(map[string]float32, len(expressions)),
	}
	for _, name := range joints {
		r.joints[name] = &JointHandle{Name: name}
	}
	for _, name := range expressions {
		r.expressions[name] = 0
	}
	return r
}

func (r *HumanoidRig) Joint(name JointName) (*JointHandle, bool) {
	j, ok := r.joints[name]
	return j, ok
}

func (r *HumanoidRig) HasExpressions() bool {
	return len(r.expressions) > 0
}

func (r *HumanoidRig) SetExpression(name string, weight float32) {
	if _, ok := r.expressions[name]; !ok {
		return
	}
	r.expressions[name] = clamp(weight, 0, 1)
}

func (r *HumanoidRig) Expression(name string) float32 {
	return r.expressions[name]
}

// JointCount returns the number of joints the rig actually carries.
func (r *HumanoidRig) JointCount() int {
	return len(r.joints)
}
