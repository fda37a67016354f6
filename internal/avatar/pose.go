package avatar

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Per-state smoothing factors. Idle is slow and restful, typing is the most
// responsive, the rest sit in between.
const (
	idleSmoothing     = 0.03
	typingSmoothing   = 0.1
	awaitingSmoothing = 0.05
	speakingSmoothing = 0.08
)

// Static hands-on-hips arm posture, shared by the idle, awaiting and
// speaking poses for character continuity.
var (
	leftArmOnHip = map[JointName]mgl32.Vec3{
		JointLeftUpperArm: {0.1, 0, 1.15},
		JointLeftLowerArm: {0, 1.35, 0},
		JointLeftHand:     {0, 0, 0.2},
	}
	rightArmOnHip = map[JointName]mgl32.Vec3{
		JointRightUpperArm: {0.1, 0, -1.15},
		JointRightLowerArm: {0, -1.35, 0},
		JointRightHand:     {0, 0, -0.2},
	}
)

// PoseController drives every rig joint toward the target rotation of the
// active conversational state. Targets are recomputed fresh every frame and
// each joint is advanced independently per axis through Lerp, so a state
// switch retargets smoothly instead of cutting.
type PoseController struct {
	rig Rig
}

// NewPoseController returns a controller over the given rig. The rig may be
// partial; joints it lacks are skipped.
func NewPoseController(rig Rig) *PoseController {
	return &PoseController{rig: rig}
}

// Update advances every present joint one smoothing step toward the active
// state's target. t is elapsed seconds on the shared frame clock.
func (pc *PoseController) Update(state ConversationalState, t float64) {
	targets, factor := poseTargets(state, t)
	for _, name := range JointNames {
		joint, ok := pc.rig.Joint(name)
		if !ok {
			continue
		}
		joint.Rotation = Lerp3(joint.Rotation, targets[name], factor)
	}
}

// poseTargets returns the full target table and smoothing factor for a
// state. Joints absent from the table target the zero rotation.
func poseTargets(state ConversationalState, t float64) (map[JointName]mgl32.Vec3, float32) {
	switch state {
	case StateUserTyping:
		return typingTargets(), typingSmoothing
	case StateAwaitingResponse:
		return awaitingTargets(), awaitingSmoothing
	case StateSpeaking:
		return speakingTargets(t), speakingSmoothing
	default:
		return idleTargets(t), idleSmoothing
	}
}

func idleTargets(t float64) map[JointName]mgl32.Vec3 {
	breathe := Breathe(t)
	drift := Drift(t)

	targets := map[JointName]mgl32.Vec3{
		JointHips:  {0, 0, drift},
		JointSpine: {breathe, 0, drift},
		JointNeck:  {0, 0, 0},
		JointHead:  {0, drift, 0},
	}
	mergeArms(targets, leftArmOnHip, rightArmOnHip)
	return targets
}

// typingTargets is the looking-down-at-the-keyboard posture shown while the
// user is composing a message.
func typingTargets() map[JointName]mgl32.Vec3 {
	return map[JointName]mgl32.Vec3{
		JointHips:          {0, 0, 0},
		JointSpine:         {0.12, 0, 0},
		JointNeck:          {0.15, 0, 0},
		JointHead:          {0.35, 0, 0},
		JointLeftUpperArm:  {-0.45, 0, 0.25},
		JointLeftLowerArm:  {-0.9, 0, 0},
		JointLeftHand:      {-0.2, 0, 0},
		JointRightUpperArm: {-0.45, 0, -0.25},
		JointRightLowerArm: {-0.9, 0, 0},
		JointRightHand:     {-0.2, 0, 0},
	}
}

// awaitingTargets is the hand-near-chin thinking posture held while a reply
// is being generated.
func awaitingTargets() map[JointName]mgl32.Vec3 {
	targets := map[JointName]mgl32.Vec3{
		JointHips:          {0, 0, 0},
		JointSpine:         {0, 0, 0.05},
		JointNeck:          {-0.05, 0, 0},
		JointHead:          {-0.12, 0.12, 0.18},
		JointRightUpperArm: {-0.35, 0, -0.95},
		JointRightLowerArm: {-2.2, 0, 0},
		JointRightHand:     {-0.35, 0, 0},
	}
	mergeArms(targets, leftArmOnHip, nil)
	return targets
}

func speakingTargets(t float64) map[JointName]mgl32.Vec3 {
	bob := float32(math.Sin(t*6.0)) * 0.08
	sway := float32(math.Cos(t*2.5)) * 0.1

	// Rhythmic right-arm gesture, amplitude breathing with a slow sine.
	gesture := float32(math.Sin(t*4.0)) * (0.2 + 0.1*float32(math.Sin(t*0.7)))

	targets := map[JointName]mgl32.Vec3{
		JointHips:          {0, 0, 0},
		JointSpine:         {0.04, 0, 0},
		JointNeck:          {0, 0, 0},
		JointHead:          {bob, sway, 0},
		JointRightUpperArm: {-0.35 + gesture*0.4, 0, -0.55},
		JointRightLowerArm: {-1.2 + gesture, 0, 0},
		JointRightHand:     {-0.2, 0, 0},
	}
	mergeArms(targets, leftArmOnHip, nil)
	return targets
}

func mergeArms(into map[JointName]mgl32.Vec3, arms ...map[JointName]mgl32.Vec3) {
	for _, arm := range arms {
		for name, rot := range arm {
			into[name] = rot
		}
	}
}
