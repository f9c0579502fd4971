// Package config resolves application settings from defaults, a YAML file,
// a .env file and STUDYQUEST_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level structure of config.yaml.
type Config struct {
	DB      string        `yaml:"db"`
	Focus   FocusConfig   `yaml:"focus"`
	Rewards RewardsConfig `yaml:"rewards"`
	Setup   SetupConfig   `yaml:"setup"`
	LLM     LLMConfig     `yaml:"llm"`
	Log     LogConfig     `yaml:"log"`
}

// FocusConfig controls focus session lengths.
type FocusConfig struct {
	FallbackMinutes int `yaml:"fallback_minutes"`
	MinMinutes      int `yaml:"min_minutes"`
	MaxMinutes      int `yaml:"max_minutes"`
	SessionsPerDay  int `yaml:"sessions_per_day"`
}

// RewardsConfig controls XP awards.
type RewardsConfig struct {
	SessionXP int `yaml:"session_xp"`
}

// SetupConfig holds the defaults offered by the onboarding form.
type SetupConfig struct {
	DefaultDays       int     `yaml:"default_days"`
	DefaultDailyHours float64 `yaml:"default_daily_hours"`
}

// LLMConfig selects the AI provider. API keys stay in the environment.
type LLMConfig struct {
	Provider string        `yaml:"provider"`
	Timeout  time.Duration `yaml:"timeout"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug | info | warn | error
}

const (
	appDir     = "studyquest"
	configFile = "config.yaml"
)

// Default returns a Config populated with the built-in defaults.
func Default() *Config {
	return &Config{
		Focus: FocusConfig{
			FallbackMinutes: 25,
			MinMinutes:      10,
			MaxMinutes:      60,
			SessionsPerDay:  3,
		},
		Rewards: RewardsConfig{SessionXP: 50},
		Setup: SetupConfig{
			DefaultDays:       30,
			DefaultDailyHours: 1,
		},
		LLM: LLMConfig{Timeout: 30 * time.Second},
		Log: LogConfig{Level: "info"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/studyquest/config.yaml, falling back
// to ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, appDir, configFile), nil
}

// Load resolves the configuration. path names the YAML file; when empty,
// STUDYQUEST_CONFIG and then DefaultPath are used. A missing file is not an
// error. Variables from ./.env never override the process environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("STUDYQUEST_CONFIG")
	}
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if err := cfg.readFile(path); err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("STUDYQUEST_DB"); v != "" {
		c.DB = v
	}
	if v := os.Getenv("STUDYQUEST_LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("STUDYQUEST_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("STUDYQUEST_LLM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("STUDYQUEST_LLM_TIMEOUT: %w", err)
		}
		c.LLM.Timeout = d
	}

	ints := []struct {
		env string
		dst *int
	}{
		{"STUDYQUEST_FOCUS_FALLBACK_MINUTES", &c.Focus.FallbackMinutes},
		{"STUDYQUEST_FOCUS_MIN_MINUTES", &c.Focus.MinMinutes},
		{"STUDYQUEST_FOCUS_MAX_MINUTES", &c.Focus.MaxMinutes},
		{"STUDYQUEST_FOCUS_SESSIONS_PER_DAY", &c.Focus.SessionsPerDay},
		{"STUDYQUEST_SESSION_XP", &c.Rewards.SessionXP},
	}
	for _, e := range ints {
		v := os.Getenv(e.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", e.env, err)
		}
		*e.dst = n
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	f := c.Focus
	if f.MinMinutes <= 0 || f.MaxMinutes < f.MinMinutes {
		return fmt.Errorf("focus: min_minutes %d and max_minutes %d must satisfy 0 < min <= max", f.MinMinutes, f.MaxMinutes)
	}
	if f.FallbackMinutes <= 0 {
		return fmt.Errorf("focus: fallback_minutes must be positive, got %d", f.FallbackMinutes)
	}
	if f.SessionsPerDay <= 0 {
		return fmt.Errorf("focus: sessions_per_day must be positive, got %d", f.SessionsPerDay)
	}
	if c.Rewards.SessionXP < 0 {
		return fmt.Errorf("rewards: session_xp must not be negative, got %d", c.Rewards.SessionXP)
	}
	if c.Setup.DefaultDays <= 0 || c.Setup.DefaultDailyHours <= 0 {
		return fmt.Errorf("setup: default_days and default_daily_hours must be positive")
	}
	return nil
}

// Write stores cfg as YAML at path, creating parent directories.
func Write(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
