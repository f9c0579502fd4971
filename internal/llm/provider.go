// Package llm is the model gateway behind syllabus generation, the
// avatar designer and the Nova tutor. A Provider hides which vendor SDK
// answers; NewProvider adds timeout, retry and request recording around it.
package llm

import (
	"context"
	"encoding/json"
)

// Provider answers one request. Implementations map their SDK failures
// onto the error types in errors.go.
type Provider interface {
	// Generate returns validated JSON when req.Schema is set and the reply
	// text (as a JSON string) otherwise.
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

// Role marks who said a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn.
type Message struct {
	Role    Role
	Content string
}

// Schema is a JSON Schema the reply must satisfy. Name is also the cache
// key for the compiled schema and must be unique per definition.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Request is one prompt. Single-shot features send one user message; the
// tutor replays the chat so far.
type Request struct {
	System      string
	Messages    []Message
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

// Usage is the token count of one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Response is a successful answer. StopReason is "end" or "max_tokens".
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}

// Text is the reply as plain text: string content decoded, anything else
// verbatim. A nil Response has no text.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	var s string
	if json.Unmarshal(r.Content, &s) == nil {
		return s
	}
	return string(r.Content)
}

// TextContent encodes free text as Response.Content.
func TextContent(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}

// finishContent turns raw model output into Response.Content.
func finishContent(schema *Schema, raw string) (json.RawMessage, error) {
	if schema == nil {
		return TextContent(raw), nil
	}
	if err := validateResponse(schema, json.RawMessage(raw)); err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}
