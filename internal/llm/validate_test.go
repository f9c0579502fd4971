package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

var levelSchema = &Schema{
	Name: "validate-level",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":   map[string]any{"type": "string", "minLength": 1},
			"order":   map[string]any{"type": "integer", "minimum": 0},
			"status":  map[string]any{"type": "string", "enum": []string{"LOCKED", "OPEN", "DONE"}},
			"minutes": map[string]any{"type": "array", "items": map[string]any{"type": "integer"}},
		},
		"required": []string{"title", "order"},
	},
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		ok    bool
	}{
		{"complete", `{"title":"Limits","order":0,"status":"OPEN","minutes":[25,40]}`, true},
		{"optional fields omitted", `{"title":"Derivatives","order":1}`, true},
		{"large integer", `{"title":"Series","order":12345678901234567}`, true},
		{"missing order", `{"title":"Integrals"}`, false},
		{"order as text", `{"title":"Series","order":"three"}`, false},
		{"negative order", `{"title":"Series","order":-1}`, false},
		{"fractional order", `{"title":"Series","order":1.5}`, false},
		{"unknown status", `{"title":"Review","order":4,"status":"PENDING"}`, false},
		{"empty title", `{"title":"","order":0}`, false},
		{"minutes as words", `{"title":"Review","order":4,"minutes":["ten"]}`, false},
		{"not json", `{not json}`, false},
		{"empty reply", ``, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(levelSchema, json.RawMessage(tt.reply))
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			var invalid *ErrInvalidResponse
			if assert.ErrorAs(t, err, &invalid) {
				assert.Equal(t, tt.reply, string(invalid.Content))
			}
		})
	}
}

func TestValidateResponseWithoutSchema(t *testing.T) {
	assert.NoError(t, validateResponse(nil, json.RawMessage(`not even json`)))
}

func TestBrokenSchemaIsReportedAsInvalidReply(t *testing.T) {
	broken := &Schema{Name: "validate-broken", Definition: map[string]any{"type": 42}}
	err := validateResponse(broken, json.RawMessage(`{}`))
	var invalid *ErrInvalidResponse
	assert.ErrorAs(t, err, &invalid)
}

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		in    float64
	}{
		{"claude-haiku-4-5-20251001", 1},
		{"gpt-4o-mini", 0.15},
		{"gpt-4o-2024-11-20", 2.5},
		{"google/gemini-2.5-flash", 0.3},
		{"gemini-2.5-flash-lite", 0.1},
		{"gemini-3-flash-preview", 0.5},
	}
	for _, tt := range tests {
		c := LookupCost(tt.model)
		if assert.NotNil(t, c, tt.model) {
			assert.Equal(t, tt.in, c.InputPerMTok, tt.model)
		}
	}
	assert.Nil(t, LookupCost("mock"))
	assert.InDelta(t, 0.0045, ModelCost{InputPerMTok: 1, OutputPerMTok: 5}.Cost(2000, 500), 1e-9)
}
