package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Client configures the terminal chat client.
type Client struct {
	Backend Backend `yaml:"backend"`
	Weather Weather `yaml:"weather"`
	Voice   Voice   `yaml:"voice"`
}

// Backend locates the BdAsk server.
type Backend struct {
	URL     string        `yaml:"url" env:"BDASK_BACKEND_URL" env-default:"http://localhost:8001"`
	Timeout time.Duration `yaml:"timeout" env:"BDASK_TIMEOUT" env-default:"15s"`
}

// Weather configures the Open-Meteo lookup.
type Weather struct {
	BaseURL string        `yaml:"base_url" env:"BDASK_WEATHER_URL" env-default:"https://api.open-meteo.com"`
	Timeout time.Duration `yaml:"timeout" env:"BDASK_WEATHER_TIMEOUT" env-default:"10s"`
}

// Voice configures speech recognition. Voice input is unsupported unless
// both an API key and a recorder command are set.
type Voice struct {
	Language        string `yaml:"language" env:"BDASK_VOICE_LANG" env-default:"bn-BD"`
	DeepgramAPIKey  string `yaml:"deepgram_api_key" env:"DEEPGRAM_API_KEY"`
	DeepgramBaseURL string `yaml:"deepgram_base_url" env:"DEEPGRAM_BASE_URL" env-default:"wss://api.deepgram.com"`
	Model           string `yaml:"model" env:"DEEPGRAM_MODEL" env-default:"nova-2"`
	RecorderCommand string `yaml:"recorder_command" env:"BDASK_RECORDER_CMD"`
	SampleRate      int    `yaml:"sample_rate" env:"BDASK_SAMPLE_RATE" env-default:"16000"`
}

// LoadClient reads the client config from an optional YAML file, then the
// environment. A missing file is not an error.
func LoadClient(path string) (*Client, error) {
	var cfg Client
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
			return &cfg, cfg.validate()
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
		}
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read env: %w", err)
	}
	return &cfg, cfg.validate()
}

func (c *Client) validate() error {
	if c.Backend.URL == "" {
		return fmt.Errorf("backend url cannot be empty")
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend timeout must be > 0")
	}
	return nil
}

// VoiceEnabled reports whether a speech recognizer can be built.
func (v Voice) VoiceEnabled() bool {
	return v.DeepgramAPIKey != "" && v.RecorderCommand != ""
}
