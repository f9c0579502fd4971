package llm

import "errors"

const openRouterURL = "https://openrouter.ai/api/v1"

// NewOpenRouterProvider returns an OpenAI-protocol provider pointed at
// OpenRouter. Model names are OpenRouter slugs such as
// "google/gemini-2.5-flash".
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter: api key is required")
	}
	base := cfg.BaseURL
	if base == "" {
		base = openRouterURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultConfig().OpenRouter.Model
	}
	return NewOpenAIProvider(OpenAIConfig{APIKey: cfg.APIKey, Model: model, BaseURL: base})
}
