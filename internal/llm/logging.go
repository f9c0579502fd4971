package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/studyquest/internal/logging"
	"github.com/abhisek/studyquest/internal/store"
)

// recorder appends an llm_request event for every call and mirrors it to
// the diagnostic log. Recording failures are logged, never returned.
type recorder struct {
	next     Provider
	provider string
	events   store.EventRepo
	logger   *slog.Logger
}

// WithLogging wraps p with event recording. events and logger may be nil.
func WithLogging(p Provider, provider string, events store.EventRepo, logger *slog.Logger) Provider {
	return &recorder{next: p, provider: provider, events: events, logger: logging.Or(logger)}
}

func (r *recorder) ModelID() string { return r.next.ModelID() }

func (r *recorder) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := r.next.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		Provider:    r.provider,
		Model:       r.next.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
	}

	log := r.logger.With("purpose", ev.Purpose, "model", ev.Model, "latency_ms", ev.LatencyMs)
	if err != nil {
		ev.ErrorMessage = err.Error()
		log.Warn("llm request failed", "err", err)
	} else {
		log.Debug("llm request", "input_tokens", ev.InputTokens, "output_tokens", ev.OutputTokens)
	}

	if r.events != nil {
		if rerr := r.events.AppendLLMRequest(ctx, ev); rerr != nil {
			r.logger.Warn("could not record llm request", "err", rerr)
		}
	}
	return resp, err
}

// transcript renders a request for `studyquest llm view`.
func transcript(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
