// Package config provides the configuration structure for the kitten-tts service.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/book-expert/configurator"
	"github.com/book-expert/kitten-tts/internal/phonemize"
	"github.com/book-expert/kitten-tts/internal/voice"
	"github.com/book-expert/kitten-tts/internal/wav"
	"github.com/book-expert/logger"
	"github.com/caarlos0/env/v11"
)

// Default values applied to empty settings.
const (
	DefaultTimeoutSeconds = 60
	DefaultEngineURL      = "http://localhost:8000"
)

var (
	// ErrMissingSetting is returned by Validate for a required empty value.
	ErrMissingSetting = errors.New("missing required setting")
	// ErrInvalidSetting is returned by Validate for an unusable value.
	ErrInvalidSetting = errors.New("invalid setting")
)

// NATSConfig holds the configuration for NATS.
type NATSConfig struct {
	URL                      string `toml:"url"                         env:"KITTEN_NATS_URL"`
	TextProcessedSubject     string `toml:"text_processed_subject"      env:"KITTEN_TEXT_PROCESSED_SUBJECT"`
	AudioChunkCreatedSubject string `toml:"audio_chunk_created_subject" env:"KITTEN_AUDIO_CHUNK_CREATED_SUBJECT"`
	AudioObjectStoreBucket   string `toml:"audio_object_store_bucket"   env:"KITTEN_AUDIO_OBJECT_STORE_BUCKET"`
}

// TTSServiceConfig holds the synthesis pipeline settings. PadWaveform
// defaults to true when unset; an empty DictionaryPath selects the built-in
// dictionary.
type TTSServiceConfig struct {
	EngineURL      string `toml:"engine_url"      env:"KITTEN_ENGINE_URL"`
	TimeoutSeconds int    `toml:"timeout_seconds" env:"KITTEN_TIMEOUT_SECONDS"`
	Voice          string `toml:"voice"           env:"KITTEN_VOICE"`
	SampleRate     uint32 `toml:"sample_rate"     env:"KITTEN_SAMPLE_RATE"`
	PadWaveform    *bool  `toml:"pad_waveform"    env:"KITTEN_PAD_WAVEFORM"`
	FallbackPolicy string `toml:"fallback_policy" env:"KITTEN_FALLBACK_POLICY"`
	StressPolicy   string `toml:"stress_policy"   env:"KITTEN_STRESS_POLICY"`
	DictionaryPath string `toml:"dictionary_path" env:"KITTEN_DICTIONARY_PATH"`
	VoicesPath     string `toml:"voices_path"     env:"KITTEN_VOICES_PATH"`
	NormalizeText  bool   `toml:"normalize_text"  env:"KITTEN_NORMALIZE_TEXT"`
}

// PathsConfig holds the configuration for file paths.
type PathsConfig struct {
	BaseLogsDir string `toml:"base_logs_dir" env:"KITTEN_BASE_LOGS_DIR"`
}

// Config is the root configuration structure.
type Config struct {
	NATS  NATSConfig       `toml:"nats"`
	TTS   TTSServiceConfig `toml:"tts_service"`
	Paths PathsConfig      `toml:"paths"`
}

// Load reads project.toml through the configurator, then applies KITTEN_*
// environment overrides and defaults.
func Load(log *logger.Logger) (*Config, error) {
	var cfg Config

	err := configurator.Load(&cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from configurator: %w", err)
	}

	err = ApplyEnv(&cfg)
	if err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()

	return &cfg, nil
}

// ApplyEnv overrides cfg with the KITTEN_* variables that are set.
func ApplyEnv(cfg *Config) error {
	err := env.Parse(cfg)
	if err != nil {
		return fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	return nil
}

// ApplyDefaults fills empty pipeline settings.
func (c *Config) ApplyDefaults() {
	if c.TTS.EngineURL == "" {
		c.TTS.EngineURL = DefaultEngineURL
	}

	if c.TTS.TimeoutSeconds == 0 {
		c.TTS.TimeoutSeconds = DefaultTimeoutSeconds
	}

	if c.TTS.SampleRate == 0 {
		c.TTS.SampleRate = wav.DefaultSampleRate
	}

	if c.TTS.PadWaveform == nil {
		pad := true
		c.TTS.PadWaveform = &pad
	}
}

// Validate checks the settings the service needs to start.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{name: "nats.url", value: c.NATS.URL},
		{name: "nats.text_processed_subject", value: c.NATS.TextProcessedSubject},
		{name: "nats.audio_object_store_bucket", value: c.NATS.AudioObjectStoreBucket},
		{name: "tts_service.engine_url", value: c.TTS.EngineURL},
		{name: "tts_service.voices_path", value: c.TTS.VoicesPath},
	}

	for _, setting := range required {
		if setting.value == "" {
			return fmt.Errorf("%w: %s", ErrMissingSetting, setting.name)
		}
	}

	if c.TTS.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: tts_service.timeout_seconds must be positive, got %d",
			ErrInvalidSetting, c.TTS.TimeoutSeconds)
	}

	if c.TTS.SampleRate != 0 {
		err := wav.ValidateSampleRate(c.TTS.SampleRate)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSetting, err)
		}
	}

	_, err := c.Voice()
	if err != nil {
		return err
	}

	_, err = c.FallbackPolicy()
	if err != nil {
		return err
	}

	_, err = c.StressPolicy()
	if err != nil {
		return err
	}

	return nil
}

// Voice returns the configured default voice.
func (c *Config) Voice() (voice.Voice, error) {
	v, err := voice.Parse(c.TTS.Voice)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSetting, err)
	}

	return v, nil
}

// FallbackPolicy returns the configured fallback policy.
func (c *Config) FallbackPolicy() (phonemize.FallbackPolicy, error) {
	policy, err := phonemize.ParseFallbackPolicy(c.TTS.FallbackPolicy)
	if err != nil {
		return policy, fmt.Errorf("%w: %w", ErrInvalidSetting, err)
	}

	return policy, nil
}

// StressPolicy returns the configured stress policy.
func (c *Config) StressPolicy() (phonemize.StressPolicy, error) {
	policy, err := phonemize.ParseStressPolicy(c.TTS.StressPolicy)
	if err != nil {
		return policy, fmt.Errorf("%w: %w", ErrInvalidSetting, err)
	}

	return policy, nil
}

// Padding reports whether waveforms get a silent sample at both ends.
func (c *Config) Padding() bool {
	return c.TTS.PadWaveform == nil || *c.TTS.PadWaveform
}

// Timeout returns the synthesis engine request timeout.
func (c *Config) Timeout() time.Duration {
	if c.TTS.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}

	return time.Duration(c.TTS.TimeoutSeconds) * time.Second
}
