package llm

import (
	"context"
	"crypto/tls"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// GeminiConfig configures the Gemini generator.
type GeminiConfig struct {
	APIKey       string
	Model        string
	SystemPrompt string
	Timeout      time.Duration
}

// DefaultGeminiConfig returns sensible defaults.
func DefaultGeminiConfig() GeminiConfig {
	return GeminiConfig{
		Model: "gemini-2.0-flash",
		SystemPrompt: "You are a friendly 3D avatar companion. Keep replies short " +
			"and conversational; they will be spoken aloud.",
		Timeout: 30 * time.Second,
	}
}

// Gemini generates replies through the Gemini API.
type Gemini struct {
	client *genai.Client
	cfg    GeminiConfig
	logger zerolog.Logger
}

// NewGemini creates the generator. The API key may come from config or the
// GEMINI_API_KEY environment the genai client reads itself.
func NewGemini(ctx context.Context, cfg GeminiConfig, logger zerolog.Logger) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiConfig().Model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultGeminiConfig().Timeout
	}

	tr := &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
		MaxIdleConns:    100,
		IdleConnTimeout: 90 * time.Second,
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Transport: tr, Timeout: cfg.Timeout},
	})
	if err != nil {
		return nil, err
	}

	return &Gemini{
		client: client,
		cfg:    cfg,
		logger: logger.With().Str("component", "llm").Logger(),
	}, nil
}

// Reply sends the history plus prompt and returns the model's text.
func (g *Gemini) Reply(ctx context.Context, history []Message, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	contents := make([]*genai.Content, 0, len(history)+1)
	for _, msg := range history {
		role := genai.RoleUser
		if msg.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Text}},
		})
	}
	contents = append(contents, &genai.Content{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: prompt}},
	})

	temp := float32(0.8)
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: 512,
	}
	if g.cfg.SystemPrompt != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: g.cfg.SystemPrompt}},
		}
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.Model, contents, cfg)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyReply
	}

	g.logger.Debug().
		Dur("latency", time.Since(start)).
		Int("history", len(history)).
		Msg("reply generated")
	return text, nil
}
