package chat

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/zaxpr/AIChat3D/internal/audio"
	"github.com/zaxpr/AIChat3D/internal/avatar"
	"github.com/zaxpr/AIChat3D/internal/bus"
	"github.com/zaxpr/AIChat3D/internal/llm"
	"github.com/zaxpr/AIChat3D/internal/tts"
)

// Session orchestrates one conversation: user text in, model reply out,
// reply spoken through the TTS provider and the playback tap. It owns the
// three booleans the animator derives its state from.
type Session struct {
	history *History
	gen     llm.Generator
	speech  tts.Provider // nil disables spoken replies
	player  *audio.Player
	bus     *bus.EventBus
	logger  zerolog.Logger

	typing   atomic.Bool
	inFlight atomic.Bool
}

// NewSession wires the conversation pipeline together.
func NewSession(history *History, gen llm.Generator, speech tts.Provider,
	player *audio.Player, eventBus *bus.EventBus, logger zerolog.Logger) *Session {
	return &Session{
		history: history,
		gen:     gen,
		speech:  speech,
		player:  player,
		bus:     eventBus,
		logger:  logger.With().Str("component", "chat").Logger(),
	}
}

// History returns the session transcript.
func (s *Session) History() *History { return s.history }

// SetTyping records whether the user is composing a message.
func (s *Session) SetTyping(typing bool) {
	was := s.typing.Swap(typing)
	if was == typing {
		return
	}
	event := bus.EventTypeTypingStopped
	if typing {
		event = bus.EventTypeTypingStarted
	}
	s.bus.Publish(bus.Event{Type: event})
}

// Signals snapshots the conversational booleans for one animation frame.
func (s *Session) Signals() avatar.Signals {
	return avatar.Signals{
		AudioPlaying:    s.player.Playing(),
		RequestInFlight: s.inFlight.Load(),
		UserTyping:      s.typing.Load(),
	}
}

// Send runs one full turn: generate a reply for the prompt, record it, and
// start speaking it. It blocks until playback has started (or was skipped),
// so callers run it on its own goroutine. The request-in-flight flag stays
// up for the whole turn.
func (s *Session) Send(ctx context.Context, prompt string) (string, error) {
	s.typing.Store(false)
	s.inFlight.Store(true)
	defer s.inFlight.Store(false)

	s.bus.Publish(bus.Event{
		Type: bus.EventTypeRequestStarted,
		Data: map[string]any{"prompt": prompt},
	})

	reply, err := s.gen.Reply(ctx, s.history.Messages(), prompt)
	if err != nil {
		s.bus.Publish(bus.Event{
			Type: bus.EventTypeRequestFailed,
			Data: map[string]any{"error": err.Error()},
		})
		return "", fmt.Errorf("generate reply: %w", err)
	}

	ex := s.history.Add(prompt, reply)
	s.bus.Publish(bus.Event{
		Type: bus.EventTypeReply,
		Data: map[string]any{"id": ex.ID, "text": reply},
	})

	s.speak(ctx, reply)

	s.bus.Publish(bus.Event{Type: bus.EventTypeRequestFinished})
	return reply, nil
}

// speak synthesizes and starts playback. Failures downgrade to a silent
// reply; the transcript already has the text, and the animator's mouth
// simply decays to rest when nothing plays.
func (s *Session) speak(ctx context.Context, text string) {
	if s.speech == nil || s.player == nil {
		return
	}

	resp, err := s.speech.Synthesize(ctx, &tts.SynthesizeRequest{Text: text})
	if err != nil {
		s.logger.Warn().Err(err).Msg("synthesis failed, reply stays silent")
		s.bus.Publish(bus.Event{
			Type: bus.EventTypeSpeechFailed,
			Data: map[string]any{"error": err.Error()},
		})
		return
	}

	clip, err := audio.DecodeWAV(resp.Audio)
	if err != nil {
		s.logger.Warn().Err(err).Msg("could not decode synthesized audio")
		s.bus.Publish(bus.Event{
			Type: bus.EventTypeSpeechFailed,
			Data: map[string]any{"error": err.Error()},
		})
		return
	}

	if err := s.player.Play(clip); err != nil {
		s.logger.Warn().Err(err).Msg("playback failed")
		return
	}
	s.bus.Publish(bus.Event{
		Type: bus.EventTypeSpeechStarted,
		Data: map[string]any{"duration": clip.Duration().Seconds()},
	})
}
