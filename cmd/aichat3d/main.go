package main

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/zaxpr/AIChat3D/internal/audio"
	"github.com/zaxpr/AIChat3D/internal/avatar"
	"github.com/zaxpr/AIChat3D/internal/bus"
	"github.com/zaxpr/AIChat3D/internal/chat"
	"github.com/zaxpr/AIChat3D/internal/config"
	"github.com/zaxpr/AIChat3D/internal/llm"
	"github.com/zaxpr/AIChat3D/internal/logging"
	"github.com/zaxpr/AIChat3D/internal/rig"
	"github.com/zaxpr/AIChat3D/internal/stream"
	"github.com/zaxpr/AIChat3D/internal/tts"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, closeLogs, err := logging.New(logging.Config{
		Dir:     cfg.Log.Dir,
		Level:   cfg.Log.Level,
		Console: cfg.Log.Console,
	})
	if err != nil {
		os.Stderr.WriteString("logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer closeLogs()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	config.Watch(func(next *config.Config) {
		logger.Info().Msg("configuration file changed; restart to apply")
	})

	eventBus := bus.NewEventBus()

	// Avatar rig. A missing or unreadable model is not fatal: the animator
	// falls back to the procedural placeholder shape.
	var humanoid avatar.Rig
	if loaded, err := rig.Load(cfg.Avatar.ModelPath); err != nil {
		logger.Warn().Err(err).Str("path", cfg.Avatar.ModelPath).
			Msg("no humanoid model, using placeholder shape")
	} else {
		humanoid = loaded
		logger.Info().Str("path", cfg.Avatar.ModelPath).
			Int("joints", loaded.JointCount()).Msg("humanoid rig loaded")
	}

	animator := avatar.New(humanoid, rand.New(rand.NewSource(time.Now().UnixNano())))

	generator := buildGenerator(ctx, cfg, logger)

	var speech tts.Provider
	if cfg.TTS.Enabled {
		speech = tts.NewOpenAIProvider(tts.OpenAIConfig{
			APIKey:       cfg.TTS.APIKey,
			Model:        cfg.TTS.Model,
			DefaultVoice: cfg.TTS.VoiceID,
			Speed:        cfg.TTS.Speed,
		}, logger)
	} else {
		logger.Info().Msg("speech synthesis disabled, replies are text only")
	}

	player := audio.NewPlayer(logger)
	history := chat.NewHistory(chat.DefaultHistoryConfig())
	session := chat.NewSession(history, generator, speech, player, eventBus, logger)

	server := stream.NewServer(cfg.Server.Addr, cfg.Server.FrameRate,
		session, animator, player, eventBus, logger)

	logger.Info().Str("addr", cfg.Server.Addr).Int("frame_rate", cfg.Server.FrameRate).
		Bool("rig", animator.HasRig()).Msg("starting")

	if err := server.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
	logger.Info().Msg("shutdown complete")
}

// buildGenerator picks the reply generator from config. Without an API key
// the offline echo generator keeps the animation pipeline usable.
func buildGenerator(ctx context.Context, cfg *config.Config, logger zerolog.Logger) llm.Generator {
	if cfg.LLM.Provider == "echo" {
		return llm.Echo{}
	}

	gemini, err := llm.NewGemini(ctx, llm.GeminiConfig{
		APIKey:       cfg.LLM.APIKey,
		Model:        cfg.LLM.Model,
		SystemPrompt: cfg.LLM.SystemPrompt,
		Timeout:      cfg.LLM.Timeout,
	}, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("gemini unavailable, falling back to echo")
		return llm.Echo{}
	}
	return gemini
}
