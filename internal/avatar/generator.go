package avatar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abhisek/studyquest/internal/llm"
	"github.com/abhisek/studyquest/internal/logging"
	"github.com/abhisek/studyquest/internal/study"
)

var (
	// unconfiguredFallback is returned when no provider is configured.
	unconfiguredFallback = study.AvatarConfig{Top: "longHair", HairColor: "pink"}

	// failureFallback is returned when the provider call fails.
	failureFallback = study.AvatarConfig{Top: "shortHair", Clothing: "hoodie"}
)

// Schema constrains the generated avatar to the option lists.
var Schema = buildSchema()

func buildSchema() *llm.Schema {
	props := map[string]any{}
	for _, f := range Fields {
		enum := make([]any, len(Options[f]))
		for i, v := range Options[f] {
			enum[i] = v
		}
		props[f] = map[string]any{"type": "string", "enum": enum}
	}
	return &llm.Schema{
		Name:        "avatar-config",
		Description: "Avatar appearance chosen from fixed option lists",
		Definition: map[string]any{
			"type":                 "object",
			"properties":           props,
			"additionalProperties": false,
		},
	}
}

const systemPrompt = `You design cartoon avatars. Pick one allowed option for each field that best matches the description. Leave out fields the description says nothing about.`

// Generator turns a free-text description into an avatar.
type Generator struct {
	provider llm.Provider
	logger   *slog.Logger
}

// NewGenerator creates a Generator. provider may be nil.
func NewGenerator(provider llm.Provider, logger *slog.Logger) *Generator {
	return &Generator{provider: provider, logger: logging.Or(logger)}
}

// Generate returns the partial avatar described by description. It never
// fails: a missing provider or a failed call yields a fixed look, and the
// cause is returned alongside for display.
func (g *Generator) Generate(ctx context.Context, description string) (study.AvatarConfig, error) {
	if g.provider == nil {
		return unconfiguredFallback, &llm.ErrProviderUnavailable{Err: errors.New("no LLM provider configured")}
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return study.AvatarConfig{}, nil
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeAvatar)
	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: fmt.Sprintf("Description: %q", description)}},
		Schema:      Schema,
		MaxTokens:   512,
		Temperature: 0.9,
	})
	if err != nil {
		g.logger.Warn("avatar generation failed", "err", err)
		return failureFallback, fmt.Errorf("avatar generation: %w", err)
	}

	var out study.AvatarConfig
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		g.logger.Warn("avatar response unreadable", "err", err)
		return failureFallback, fmt.Errorf("parse avatar response: %w", err)
	}
	return Sanitize(out), nil
}
