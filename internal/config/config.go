// Package config provides configuration management for AIChat3D.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all application configuration. Animation tuning constants
// deliberately live in code, not here; this covers the providers and the
// serving surface.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	LLM    LLMConfig    `mapstructure:"llm"`
	TTS    TTSConfig    `mapstructure:"tts"`
	Avatar AvatarConfig `mapstructure:"avatar"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig configures the HTTP/WebSocket surface.
type ServerConfig struct {
	Addr      string `mapstructure:"addr"`
	FrameRate int    `mapstructure:"frame_rate"`
}

// LLMConfig configures text generation.
type LLMConfig struct {
	Provider     string        `mapstructure:"provider"` // gemini, echo
	APIKey       string        `mapstructure:"api_key"`
	Model        string        `mapstructure:"model"`
	SystemPrompt string        `mapstructure:"system_prompt"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// TTSConfig configures speech synthesis.
type TTSConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	APIKey  string  `mapstructure:"api_key"`
	Model   string  `mapstructure:"model"`
	VoiceID string  `mapstructure:"voice_id"`
	Speed   float64 `mapstructure:"speed"`
}

// AvatarConfig configures the character asset.
type AvatarConfig struct {
	ModelPath string `mapstructure:"model_path"` // empty or missing file => fallback shape
}

// LogConfig configures logging output.
type LogConfig struct {
	Level   string `mapstructure:"level"`
	Dir     string `mapstructure:"dir"`
	Console bool   `mapstructure:"console"`
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Server: ServerConfig{
			Addr:      ":8490",
			FrameRate: 60,
		},
		LLM: LLMConfig{
			Provider: "gemini",
			Model:    "gemini-2.0-flash",
			Timeout:  30 * time.Second,
		},
		TTS: TTSConfig{
			Enabled: true,
			Model:   "tts-1",
			VoiceID: "nova",
			Speed:   1.0,
		},
		Avatar: AvatarConfig{
			ModelPath: "assets/models/avatar.glb",
		},
		Log: LogConfig{
			Level:   "info",
			Dir:     filepath.Join(home, ".aichat3d", "logs"),
			Console: true,
		},
	}
}

// Load reads configuration from file and environment. The config file is
// optional; env overrides use the AICHAT3D_ prefix.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, err
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(filepath.Join(home, ".aichat3d"))
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("AICHAT3D")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, err
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Watch re-reads the config file on change and calls fn with the fresh
// values. Only settings read per-request (provider keys, voice, log level)
// take effect without a restart.
func Watch(fn func(*Config)) {
	viper.OnConfigChange(func(fsnotify.Event) {
		cfg := DefaultConfig()
		if err := viper.Unmarshal(cfg); err != nil {
			return
		}
		fn(cfg)
	})
	viper.WatchConfig()
}
