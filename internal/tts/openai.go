package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// OpenAI TTS voices.
const (
	VoiceAlloy   = "alloy"
	VoiceEcho    = "echo"
	VoiceFable   = "fable"
	VoiceOnyx    = "onyx"
	VoiceNova    = "nova"
	VoiceShimmer = "shimmer"
)

// OpenAIConfig holds OpenAI TTS configuration.
type OpenAIConfig struct {
	APIKey       string        `json:"api_key"`
	BaseURL      string        `json:"base_url"`
	Model        string        `json:"model"`         // tts-1 or tts-1-hd
	DefaultVoice string        `json:"default_voice"`
	Speed        float64       `json:"speed"`
	Timeout      time.Duration `json:"timeout"`
}

// DefaultOpenAIConfig returns sensible defaults.
func DefaultOpenAIConfig() OpenAIConfig {
	return OpenAIConfig{
		BaseURL:      "https://api.openai.com/v1",
		Model:        "tts-1",
		DefaultVoice: VoiceNova,
		Speed:        1.0,
		Timeout:      30 * time.Second,
	}
}

// OpenAIProvider synthesizes speech through the OpenAI TTS API. Audio is
// requested as WAV so the playback tap can analyze the PCM directly.
type OpenAIProvider struct {
	apiKey string
	client *http.Client
	config OpenAIConfig
	logger zerolog.Logger
}

// NewOpenAIProvider creates the provider. The API key falls back to the
// OPENAI_API_KEY environment variable.
func NewOpenAIProvider(cfg OpenAIConfig, logger zerolog.Logger) *OpenAIProvider {
	def := DefaultOpenAIConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.DefaultVoice == "" {
		cfg.DefaultVoice = def.DefaultVoice
	}
	if cfg.Speed == 0 {
		cfg.Speed = def.Speed
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	return &OpenAIProvider{
		apiKey: apiKey,
		client: &http.Client{Timeout: cfg.Timeout},
		config: cfg,
		logger: logger.With().Str("provider", "openai-tts").Logger(),
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

// Available reports whether an API key is configured.
func (p *OpenAIProvider) Available() bool { return p.apiKey != "" }

type openAIRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	ResponseFormat string  `json:"response_format,omitempty"`
	Speed          float64 `json:"speed,omitempty"`
}

// Synthesize converts text to WAV audio.
func (p *OpenAIProvider) Synthesize(ctx context.Context, req *SynthesizeRequest) (*SynthesizeResponse, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("%w: no API key", ErrProviderUnavailable)
	}
	if req.Text == "" {
		return nil, ErrEmptyText
	}
	if len(req.Text) > MaxTextLength {
		return nil, ErrTextTooLong
	}

	start := time.Now()

	voice := req.VoiceID
	if voice == "" {
		voice = p.config.DefaultVoice
	}
	speed := req.Speed
	if speed == 0 {
		speed = p.config.Speed
	}

	body, err := json.Marshal(openAIRequest{
		Model:          p.config.Model,
		Input:          req.Text,
		Voice:          voice,
		ResponseFormat: "wav",
		Speed:          speed,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.config.BaseURL+"/audio/speech", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		p.logger.Error().Int("status", resp.StatusCode).Msg("synthesis request failed")
		return nil, fmt.Errorf("openai tts: status %d: %s", resp.StatusCode, msg)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	p.logger.Debug().
		Str("voice", voice).
		Int("bytes", len(audio)).
		Dur("took", time.Since(start)).
		Msg("synthesis complete")

	return &SynthesizeResponse{
		Audio:          audio,
		Format:         "wav",
		SampleRate:     24000,
		ProcessingTime: time.Since(start),
		VoiceID:        voice,
		Provider:       p.Name(),
	}, nil
}
