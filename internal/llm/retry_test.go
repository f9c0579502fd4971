package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{MaxAttempts: attempts, InitialWait: time.Millisecond, MaxWait: 4 * time.Millisecond, Multiplier: 2}
}

func down() MockResponse { return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}} }

func offSchema() MockResponse {
	return MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage(`{"titles":[]}`), Err: errors.New("minItems")}}
}

func TestRetryOutcomes(t *testing.T) {
	tests := []struct {
		name      string
		attempts  int
		responses []MockResponse
		wantErr   any
		wantCalls int
	}{
		{"first try", 3, []MockResponse{MockText("ok")}, nil, 1},
		{"recovers from outage", 3, []MockResponse{down(), down(), MockText("ok")}, nil, 3},
		{"gives up after max attempts", 3, []MockResponse{down(), down(), down(), MockText("unused")}, &ErrProviderUnavailable{}, 3},
		{"truncation is final", 3, []MockResponse{{Err: &ErrMaxTokensExceeded{}}, MockText("unused")}, &ErrMaxTokensExceeded{}, 1},
		{"one more try for an off-schema answer", 3, []MockResponse{offSchema(), MockJSON(`{"titles":["Limits"]}`)}, nil, 2},
		{"second off-schema answer is final", 5, []MockResponse{offSchema(), offSchema(), MockText("unused")}, &ErrInvalidResponse{}, 2},
		{"zero attempts still calls once", 0, []MockResponse{down(), MockText("unused")}, &ErrProviderUnavailable{}, 1},
		{"rate limit honors retry-after", 2, []MockResponse{{Err: &ErrRateLimit{RetryAfter: time.Millisecond}}, MockText("ok")}, nil, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			_, err := WithRetry(mock, fastRetry(tt.attempts)).Generate(context.Background(), Request{})
			assert.Equal(t, tt.wantCalls, mock.CallCount())
			switch want := tt.wantErr.(type) {
			case nil:
				assert.NoError(t, err)
			case *ErrProviderUnavailable:
				assert.ErrorAs(t, err, &want)
			case *ErrMaxTokensExceeded:
				assert.ErrorAs(t, err, &want)
			case *ErrInvalidResponse:
				assert.ErrorAs(t, err, &want)
			}
		})
	}
}

func TestRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	mock := NewMockProvider(down(), MockText("unused"))
	cfg := RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, MaxWait: time.Hour, Multiplier: 1}

	_, err := WithRetry(mock, cfg).Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetryWait(t *testing.T) {
	r := &retrier{
		cfg:    RetryConfig{InitialWait: time.Second, MaxWait: 5 * time.Second, Multiplier: 2},
		jitter: func() float64 { return 0 },
	}
	outage := &ErrProviderUnavailable{}
	assert.Equal(t, time.Second, r.wait(0, outage))
	assert.Equal(t, 2*time.Second, r.wait(1, outage))
	assert.Equal(t, 4*time.Second, r.wait(2, outage))
	assert.Equal(t, 5*time.Second, r.wait(3, outage))
	assert.Equal(t, 5*time.Second, r.wait(30, outage))
	assert.Equal(t, 7*time.Second, r.wait(0, &ErrRateLimit{RetryAfter: 7 * time.Second}))

	r.jitter = func() float64 { return 1 }
	assert.Equal(t, 1200*time.Millisecond, r.wait(0, outage))
	r.jitter = func() float64 { return -1 }
	assert.Equal(t, 800*time.Millisecond, r.wait(0, outage))
}

func TestTransientAndOffline(t *testing.T) {
	assert.False(t, Transient(nil))
	assert.False(t, Transient(context.Canceled))
	assert.False(t, Transient(&ErrMaxTokensExceeded{}))
	assert.True(t, Transient(&ErrRateLimit{}))
	assert.True(t, Transient(errors.New("connection reset")))

	assert.True(t, Offline(&ErrProviderUnavailable{}))
	assert.False(t, Offline(&ErrRateLimit{}))

	require.IsType(t, &ErrRateLimit{}, classifyStatus(429, errors.New("slow down")))
	require.IsType(t, &ErrProviderUnavailable{}, classifyStatus(503, errors.New("maintenance")))
	require.IsType(t, &ErrProviderUnavailable{}, classifyStatus(401, errors.New("bad key")))
}
