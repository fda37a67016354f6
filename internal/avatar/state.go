package avatar

// ConversationalState is the coarse conversational mode the pose controller
// animates against.
type ConversationalState string

const (
	StateIdle             ConversationalState = "idle"
	StateUserTyping       ConversationalState = "user_typing"
	StateAwaitingResponse ConversationalState = "awaiting_response"
	StateSpeaking         ConversationalState = "speaking"
)

// Signals are the three externally-owned booleans the state derives from,
// sampled fresh every frame.
type Signals struct {
	AudioPlaying    bool
	RequestInFlight bool
	UserTyping      bool
}

// DeriveState collapses the signals into one state with precedence
// Speaking > AwaitingResponse > UserTyping > Idle. It is recomputed from
// scratch every frame; there is no dwell time and no transition table, so
// the state may change on any frame and the controllers must retarget
// smoothly rather than assume any ordering.
func DeriveState(s Signals) ConversationalState {
	switch {
	case s.AudioPlaying:
		return StateSpeaking
	case s.RequestInFlight:
		return StateAwaitingResponse
	case s.UserTyping:
		return StateUserTyping
	default:
		return StateIdle
	}
}
