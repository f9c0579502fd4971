// Package tutor is Nova, the study companion the learner can chat with
// during a focus session.
package tutor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abhisek/studyquest/internal/llm"
	"github.com/abhisek/studyquest/internal/logging"
)

const (
	// NoProviderReply is shown when no LLM is configured.
	NoProviderReply = "I need an API key to think!"
	// EmptyReply is shown when the model answered with nothing.
	EmptyReply = "I'm lost for words!"
	// FailureReply is shown when the provider call failed.
	FailureReply = "My connection to the knowledge stream dropped. Try asking again in a moment."
)

// Turn is one message of the chat transcript.
type Turn struct {
	FromUser bool
	Text     string
}

// Service answers learner questions.
type Service struct {
	provider llm.Provider
	logger   *slog.Logger
}

// NewService creates a Service. provider may be nil.
func NewService(provider llm.Provider, logger *slog.Logger) *Service {
	return &Service{provider: provider, logger: logging.Or(logger)}
}

func systemPrompt(lesson string) string {
	if strings.TrimSpace(lesson) == "" {
		lesson = "general study"
	}
	return fmt.Sprintf(`You are Nova, an elite study companion.
The student is currently in a deep work session for the lesson: %q.

Your goal is to clarify doubts instantly so they can get back to studying.
Keep answers concise, precise, and encouraging.
If they ask for an explanation, give a simple analogy first.
Use plain text only. No Markdown.`, lesson)
}

// Reply answers message in the context of history and the active lesson.
// It always returns text to show; the error, when set, explains why a
// canned reply was used.
func (s *Service) Reply(ctx context.Context, history []Turn, lesson, message string) (string, error) {
	if s.provider == nil {
		return NoProviderReply, &llm.ErrProviderUnavailable{}
	}

	msgs := make([]llm.Message, 0, len(history)+1)
	for _, t := range history {
		role := llm.RoleAssistant
		if t.FromUser {
			role = llm.RoleUser
		}
		msgs = append(msgs, llm.Message{Role: role, Content: t.Text})
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: message})

	ctx = llm.WithPurpose(ctx, llm.PurposeTutor)
	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      systemPrompt(lesson),
		Messages:    msgs,
		MaxTokens:   1024,
		Temperature: 0.6,
	})
	if err != nil {
		s.logger.Warn("tutor reply failed", "err", err)
		return FailureReply, fmt.Errorf("tutor reply: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return EmptyReply, nil
	}
	return text, nil
}
