package lessons

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/studyquest/internal/llm"
)

// Generator turns a syllabus into an ordered list of lesson drafts.
type Generator interface {
	GenerateLessons(ctx context.Context, input SyllabusInput) ([]Draft, error)
}

// LLMGenerator generates drafts with an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	cfg      Config
}

// NewLLMGenerator creates a generator. A nil provider yields a generator
// that always reports the provider as unavailable.
func NewLLMGenerator(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, cfg: cfg}
}

type syllabusOutput struct {
	Lessons []Draft `json:"lessons"`
}

func (g *LLMGenerator) GenerateLessons(ctx context.Context, input SyllabusInput) ([]Draft, error) {
	if g.provider == nil {
		return nil, &llm.ErrProviderUnavailable{Err: errors.New("no LLM provider configured")}
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeSyllabus)

	req := llm.Request{
		System: syllabusSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildSyllabusUserMessage(input, g.cfg)},
		},
		Schema:      SyllabusSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("syllabus generation: %w", err)
	}

	var out syllabusOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse syllabus response: %w", err)
	}
	return out.Lessons, nil
}

// Fallback returns the fixed six-level plan used whenever generation is
// unavailable. The first title quotes the start of the syllabus.
func Fallback(syllabus string) []Draft {
	subject := FallbackSubject(syllabus)
	drafts := []Draft{
		{Title: "The Journey Begins: " + teaser(syllabus, 15), Description: "Overview and initial concepts"},
		{Title: "Deep Dive I", Description: "Core theories and definitions"},
		{Title: "The Obstacle", Description: "Tackling the hardest parts"},
		{Title: "Skill Check", Description: "Applying what you learned"},
		{Title: "Mastery Level", Description: "Advanced applications"},
		{Title: "Final Boss", Description: "Complete syllabus review"},
	}
	for i := range drafts {
		drafts[i].Subject = subject
	}
	return drafts
}

// FallbackSubject derives a subject label from the syllabus: its first
// line, shortened.
func FallbackSubject(syllabus string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(syllabus), "\n")
	line = strings.TrimSpace(line)
	if line == "" {
		return GeneratedSubject
	}
	r := []rune(line)
	if len(r) > 40 {
		return string(r[:40]) + "..."
	}
	return line
}

func teaser(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) > n {
		r = r[:n]
	}
	return string(r) + "..."
}

// Result is the outcome of Generate.
type Result struct {
	Drafts []Draft
	// Fallback is set when the fixed plan replaced generated content.
	Fallback bool
	// Cause explains why the fallback was used; nil otherwise.
	Cause error
}

// Generate runs gen and substitutes Fallback when gen is nil, fails, or
// returns no lessons. It never fails: generation problems are recovered
// locally and reported through Result.
func Generate(ctx context.Context, gen Generator, input SyllabusInput) Result {
	if gen == nil {
		return Result{
			Drafts:   Fallback(input.Text),
			Fallback: true,
			Cause:    &llm.ErrProviderUnavailable{Err: errors.New("no generator configured")},
		}
	}
	drafts, err := gen.GenerateLessons(ctx, input)
	if err != nil {
		return Result{Drafts: Fallback(input.Text), Fallback: true, Cause: err}
	}
	if len(drafts) == 0 {
		return Result{Drafts: Fallback(input.Text), Fallback: true, Cause: errors.New("generator returned no lessons")}
	}
	return Result{Drafts: drafts}
}
