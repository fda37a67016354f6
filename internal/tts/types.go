// Package tts provides text-to-speech synthesis for spoken avatar replies.
package tts

import (
	"context"
	"errors"
	"time"
)

var (
	ErrProviderUnavailable = errors.New("tts: provider unavailable")
	ErrEmptyText           = errors.New("tts: empty text")
	ErrTextTooLong         = errors.New("tts: text exceeds maximum length")
)

// MaxTextLength is the longest input any provider accepts per request.
const MaxTextLength = 4096

// Provider is the interface all TTS providers implement.
type Provider interface {
	// Name returns the provider identifier (e.g., "openai").
	Name() string

	// Synthesize converts text to audio.
	Synthesize(ctx context.Context, req *SynthesizeRequest) (*SynthesizeResponse, error)
}

// SynthesizeRequest describes one synthesis call.
type SynthesizeRequest struct {
	Text    string  `json:"text"`
	VoiceID string  `json:"voice_id,omitempty"`
	Speed   float64 `json:"speed,omitempty"` // 0.5 to 2.0
}

// SynthesizeResponse carries the synthesized audio.
type SynthesizeResponse struct {
	Audio          []byte        `json:"audio"`
	Format         string        `json:"format"`
	SampleRate     int           `json:"sample_rate"`
	ProcessingTime time.Duration `json:"processing_time"`
	VoiceID        string        `json:"voice_id"`
	Provider       string        `json:"provider"`
}
