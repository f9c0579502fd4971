package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one scripted answer: Content, or Err when set.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockText scripts a tutor-style free text answer.
func MockText(s string) MockResponse { return MockResponse{Content: TextContent(s)} }

// MockJSON scripts a structured answer. It is returned as is; the mock
// does not validate against the request schema.
func MockJSON(raw string) MockResponse { return MockResponse{Content: json.RawMessage(raw)} }

// MockProvider replays scripted answers in order and records requests.
// Selected with provider "mock"; an exhausted script behaves like an
// unreachable provider, so the app falls back to its offline content.
type MockProvider struct {
	mu     sync.Mutex
	script []MockResponse
	Calls  []Request
}

// NewMockProvider returns a provider that will answer with script.
func NewMockProvider(script ...MockResponse) *MockProvider {
	return &MockProvider{script: script}
}

func (m *MockProvider) ModelID() string { return "mock" }

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)

	if len(m.script) == 0 {
		return nil, &ErrProviderUnavailable{}
	}
	next := m.script[0]
	m.script = m.script[1:]
	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{Content: next.Content, Usage: next.Usage, Model: "mock", StopReason: "end"}, nil
}

// AddResponse extends the script.
func (m *MockProvider) AddResponse(r MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, r)
}

// CallCount is the number of Generate calls so far.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastRequest is the most recent request, zero before any call.
func (m *MockProvider) LastRequest() Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n := len(m.Calls); n > 0 {
		return m.Calls[n-1]
	}
	return Request{}
}
