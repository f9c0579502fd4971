package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyquest/internal/store"
)

type recordingEventRepo struct {
	store.EventRepo // unused methods panic if called

	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingEventRepo) AppendLLMRequest(_ context.Context, d store.LLMRequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, d)
	return r.err
}

func TestResponseText(t *testing.T) {
	assert.Equal(t, "hello", (&Response{Content: TextContent("hello")}).Text())
	assert.Equal(t, `{"a":1}`, (&Response{Content: json.RawMessage(`{"a":1}`)}).Text())
	assert.Equal(t, "", (*Response)(nil).Text())
}

func TestFinishContent(t *testing.T) {
	got, err := finishContent(nil, `plain "quoted" text`)
	require.NoError(t, err)
	assert.Equal(t, `plain "quoted" text`, (&Response{Content: got}).Text())

	schema := &Schema{Name: "finish-test", Definition: map[string]any{
		"type":     "object",
		"required": []any{"ok"},
	}}
	_, err = finishContent(schema, `{"nope":true}`)
	var inv *ErrInvalidResponse
	assert.ErrorAs(t, err, &inv)

	got, err = finishContent(schema, `{"ok":true}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(got))
}

func TestLoggingProvider_RecordsEvents(t *testing.T) {
	repo := &recordingEventRepo{}
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	mock := NewMockProvider(
		MockResponse{Content: TextContent("hi"), Usage: Usage{InputTokens: 7, OutputTokens: 2}},
		MockResponse{Err: &ErrProviderUnavailable{}},
	)
	p := WithLogging(mock, "gemini", repo, logger)
	ctx := WithPurpose(context.Background(), PurposeTutor)

	_, err := p.Generate(ctx, Request{System: "sys", Messages: []Message{{Role: RoleUser, Content: "hello"}}})
	require.NoError(t, err)
	_, err = p.Generate(ctx, Request{})
	require.Error(t, err)

	require.Len(t, repo.events, 2)
	first := repo.events[0]
	assert.Equal(t, "gemini", first.Provider)
	assert.Equal(t, PurposeTutor, first.Purpose)
	assert.Equal(t, 7, first.InputTokens)
	assert.True(t, first.Success)
	assert.Contains(t, first.RequestBody, "[system]\nsys")
	assert.False(t, repo.events[1].Success)
	assert.NotEmpty(t, repo.events[1].ErrorMessage)
	assert.Contains(t, buf.String(), "llm request failed")
}

func TestLoggingProvider_RepoFailureDoesNotFailRequest(t *testing.T) {
	repo := &recordingEventRepo{err: errors.New("disk full")}
	p := WithLogging(NewMockProvider(MockText("ok")), "mock", repo, nil)

	resp, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text())
}

func TestLoggingProvider_NilRepo(t *testing.T) {
	p := WithLogging(NewMockProvider(MockText("ok")), "mock", nil, nil)
	_, err := p.Generate(context.Background(), Request{})
	assert.NoError(t, err)
}

type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(5 * time.Second):
		return &Response{}, nil
	}
}

func (slowProvider) ModelID() string { return "slow" }

func TestWithTimeout(t *testing.T) {
	p := WithTimeout(slowProvider{}, 20*time.Millisecond)
	_, err := p.Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "slow", p.ModelID())

	inner := NewMockProvider()
	assert.Same(t, Provider(inner), WithTimeout(inner, 0))
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}

	_, ok := DiscoverConfig()
	assert.False(t, ok)

	t.Setenv("OPENROUTER_API_KEY", "or")
	cfg, ok := DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, "openrouter", cfg.Provider)

	t.Setenv("API_KEY", "legacy")
	cfg, ok = DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "legacy", cfg.Gemini.APIKey)
}

func TestResolve(t *testing.T) {
	for _, k := range []string{
		"GEMINI_API_KEY", "API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
		"STUDYQUEST_LLM_PROVIDER", "STUDYQUEST_GEMINI_API_KEY", "STUDYQUEST_OPENAI_API_KEY",
	} {
		t.Setenv(k, "")
	}

	_, ok := Resolve("", 0)
	assert.False(t, ok, "no keys anywhere")

	cfg, ok := Resolve("mock", time.Second)
	require.True(t, ok)
	assert.Equal(t, "mock", cfg.Provider)
	assert.Equal(t, time.Second, cfg.Timeout)

	t.Setenv("GEMINI_API_KEY", "g")
	cfg, ok = Resolve("", 0)
	require.True(t, ok)
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, 30*time.Second, cfg.Timeout)

	_, ok = Resolve("openai", 0)
	assert.False(t, ok, "discovered key belongs to another provider")

	t.Setenv("STUDYQUEST_OPENAI_API_KEY", "o")
	cfg, ok = Resolve("openai", 0)
	require.True(t, ok)
	assert.Equal(t, "o", cfg.OpenAI.APIKey)
}

func TestMockProvider_LastRequest(t *testing.T) {
	m := NewMockProvider(MockJSON(`{}`))
	assert.Equal(t, Request{}, m.LastRequest())
	_, _ = m.Generate(context.Background(), Request{System: "x"})
	assert.Equal(t, "x", m.LastRequest().System)
}
