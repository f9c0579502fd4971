package llm

import (
	"fmt"
	"os"
	"time"
)

// Config selects a provider and carries every vendor's settings; only
// the selected vendor's block is used.
type Config struct {
	// Provider is one of "gemini", "openai", "anthropic", "openrouter"
	// or "mock".
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call, retries included.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string // alias such as "claude-haiku" or a model ID
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // for OpenAI-compatible servers
}

type GeminiConfig struct {
	APIKey string
	Model  string // alias such as "gemini-flash" or a model ID
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string // OpenRouter slug
	BaseURL string
}

// RetryConfig is the backoff schedule for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig picks cheap, fast models: setup generates a handful of
// lesson titles and the tutor answers in a few sentences.
func DefaultConfig() Config {
	return Config{
		Provider:   "gemini",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 30 * time.Second,
	}
}

// vendor ties a provider name to where its key lives.
type vendor struct {
	name string
	// env is the STUDYQUEST_ variable for the key.
	env string
	// standard are the vendor's usual variables, probed by DiscoverConfig
	// in order.
	standard []string
	key      func(*Config) *string
	model    func(*Config) *string
}

// vendors is in discovery priority order.
var vendors = []vendor{
	{"gemini", "STUDYQUEST_GEMINI_API_KEY", []string{"GEMINI_API_KEY", "API_KEY"},
		func(c *Config) *string { return &c.Gemini.APIKey }, func(c *Config) *string { return &c.Gemini.Model }},
	{"openai", "STUDYQUEST_OPENAI_API_KEY", []string{"OPENAI_API_KEY"},
		func(c *Config) *string { return &c.OpenAI.APIKey }, func(c *Config) *string { return &c.OpenAI.Model }},
	{"anthropic", "STUDYQUEST_ANTHROPIC_API_KEY", []string{"ANTHROPIC_API_KEY"},
		func(c *Config) *string { return &c.Anthropic.APIKey }, func(c *Config) *string { return &c.Anthropic.Model }},
	{"openrouter", "STUDYQUEST_OPENROUTER_API_KEY", []string{"OPENROUTER_API_KEY"},
		func(c *Config) *string { return &c.OpenRouter.APIKey }, func(c *Config) *string { return &c.OpenRouter.Model }},
}

func lookupVendor(name string) (vendor, bool) {
	for _, v := range vendors {
		if v.name == name {
			return v, true
		}
	}
	return vendor{}, false
}

func setFromEnv(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

// ConfigFromEnv reads STUDYQUEST_LLM_PROVIDER, STUDYQUEST_<VENDOR>_API_KEY,
// STUDYQUEST_<VENDOR>_MODEL and STUDYQUEST_OPENAI_BASE_URL over the defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	setFromEnv(&cfg.Provider, "STUDYQUEST_LLM_PROVIDER")
	for _, v := range vendors {
		setFromEnv(v.key(&cfg), v.env)
		setFromEnv(v.model(&cfg), v.env[:len(v.env)-len("API_KEY")]+"MODEL")
	}
	setFromEnv(&cfg.OpenAI.BaseURL, "STUDYQUEST_OPENAI_BASE_URL")
	return cfg
}

// DiscoverConfig selects the first vendor whose standard key variable is
// set, so a learner who already has GEMINI_API_KEY exported needs no
// StudyQuest-specific setup. A bare API_KEY counts as a Gemini key.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	for _, v := range vendors {
		for _, name := range v.standard {
			if k := os.Getenv(name); k != "" {
				cfg.Provider = v.name
				*v.key(&cfg) = k
				return cfg, true
			}
		}
	}
	return Config{}, false
}

// Resolve picks the effective configuration: explicit STUDYQUEST_*
// settings when they validate, otherwise discovered standard keys.
// Non-zero provider and timeout override the environment. ok is false when
// nothing usable is configured; the app then runs offline.
func Resolve(provider string, timeout time.Duration) (cfg Config, ok bool) {
	cfg = ConfigFromEnv()
	if provider != "" {
		cfg.Provider = provider
	}
	if cfg.Validate() != nil {
		found, ok := DiscoverConfig()
		if !ok || (provider != "" && found.Provider != provider) {
			return cfg, false
		}
		cfg = found
	}
	if timeout > 0 {
		cfg.Timeout = timeout
	}
	return cfg, true
}

// Validate reports a missing key for the selected vendor or an unknown
// provider name.
func (c Config) Validate() error {
	if c.Provider == "mock" {
		return nil
	}
	v, ok := lookupVendor(c.Provider)
	if !ok {
		return fmt.Errorf("unknown llm provider %q", c.Provider)
	}
	if *v.key(&c) == "" {
		return fmt.Errorf("%s is required for the %s provider", v.env, v.name)
	}
	return nil
}
