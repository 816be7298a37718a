// Package config loads scriptreel settings from an optional YAML file plus
// environment variables. A .env file in the working directory is honored.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Speech is the TTS service that turns script lines into audio.
	Speech struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		Voice   string `yaml:"voice"`
	} `yaml:"speech"`

	// LLM writes scripts and scene image prompts.
	LLM struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		Model   string `yaml:"model"`
	} `yaml:"llm"`

	Images struct {
		BaseURL   string `yaml:"base_url"`
		BatchSize int    `yaml:"batch_size"`
	} `yaml:"images"`

	Render struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"render"`

	Captions struct {
		MaxCharsPerLine int     `yaml:"max_chars_per_line"`
		MaxDuration     float64 `yaml:"max_duration"`
	} `yaml:"captions"`

	Audio struct {
		Gap      float64 `yaml:"gap"`
		CacheDir string  `yaml:"cache_dir"`

		// TrimThreshold is the PCM amplitude below which leading and
		// trailing samples count as silence on clips without word
		// timestamps. Zero disables trimming.
		TrimThreshold int16 `yaml:"trim_threshold"`
	} `yaml:"audio"`
}

func Default() *Config {
	cfg := &Config{}
	cfg.LLM.Model = "gpt-4o-mini"
	cfg.Images.BaseURL = "https://image.pollinations.ai"
	cfg.Images.BatchSize = 50
	cfg.Captions.MaxCharsPerLine = 30
	cfg.Audio.TrimThreshold = 256
	return cfg
}

// Load reads the config file at path on top of the defaults, then applies
// environment overrides. A missing file is fine; a broken one is not.
func Load(path string) (*Config, error) {
	godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config: %v", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %v", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setEnv := func(dst *string, keys ...string) {
		for _, key := range keys {
			if v := os.Getenv(key); v != "" {
				*dst = v
				return
			}
		}
	}
	setEnv(&c.Speech.BaseURL, "SCRIPTREEL_TTS_URL")
	setEnv(&c.Speech.APIKey, "SCRIPTREEL_TTS_API_KEY", "ELEVENLABS_API_KEY")
	setEnv(&c.Speech.Voice, "SCRIPTREEL_TTS_VOICE")
	setEnv(&c.LLM.BaseURL, "SCRIPTREEL_LLM_URL")
	setEnv(&c.LLM.APIKey, "SCRIPTREEL_LLM_API_KEY", "OPENAI_API_KEY")
	setEnv(&c.LLM.Model, "SCRIPTREEL_LLM_MODEL")
	setEnv(&c.Render.BaseURL, "SCRIPTREEL_RENDER_URL")
	setEnv(&c.Render.APIKey, "SCRIPTREEL_RENDER_API_KEY")
	setEnv(&c.Audio.CacheDir, "SCRIPTREEL_CACHE_DIR")
}

// Validate checks the fields a full pipeline run needs. Commands that only
// touch part of the pipeline do their own checks.
func (c *Config) Validate() error {
	if c.Speech.BaseURL == "" {
		return fmt.Errorf("speech base_url is not set (config or SCRIPTREEL_TTS_URL)")
	}
	if c.Captions.MaxCharsPerLine <= 0 {
		return fmt.Errorf("captions max_chars_per_line must be positive")
	}
	return nil
}
