package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// retrier repeats failed Generate calls that Transient considers worth
// repeating. An invalid answer is repeated once; the model tends to get
// the shape right on a second try or not at all.
type retrier struct {
	next   Provider
	cfg    RetryConfig
	jitter func() float64 // in [-1, 1)
}

// WithRetry wraps p with exponential backoff. MaxAttempts below 1 means a
// single attempt.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &retrier{next: p, cfg: cfg, jitter: func() float64 { return 2*rand.Float64() - 1 }}
}

func (r *retrier) ModelID() string { return r.next.ModelID() }

func (r *retrier) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.cfg.MaxAttempts, 1)
	reshaped := false

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		var resp *Response
		resp, err = r.next.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if !Transient(err) {
			return nil, err
		}
		var invalid *ErrInvalidResponse
		if errors.As(err, &invalid) {
			if reshaped {
				return nil, err
			}
			reshaped = true
		}
		if attempt == attempts-1 {
			break
		}

		t := time.NewTimer(r.wait(attempt, err))
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	return nil, err
}

// wait is the pause before attempt+1. A rate limit that names its own
// delay wins; otherwise the delay doubles (by Multiplier) from
// InitialWait up to MaxWait, spread by up to 20% either way.
func (r *retrier) wait(attempt int, err error) time.Duration {
	var limited *ErrRateLimit
	if errors.As(err, &limited) && limited.RetryAfter > 0 {
		return limited.RetryAfter
	}

	d := float64(r.cfg.InitialWait)
	for i := 0; i < attempt; i++ {
		d *= r.cfg.Multiplier
		if d >= float64(r.cfg.MaxWait) {
			break
		}
	}
	if r.cfg.MaxWait > 0 && d > float64(r.cfg.MaxWait) {
		d = float64(r.cfg.MaxWait)
	}
	d += d * 0.2 * r.jitter()
	return time.Duration(max(d, 0))
}
