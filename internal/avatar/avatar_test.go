package avatar

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyquest/internal/llm"
	"github.com/abhisek/studyquest/internal/study"
)

func TestDefault(t *testing.T) {
	d := Default()
	assert.Equal(t, "light", d.SkinColor)
	assert.Equal(t, "shortHair", d.Top)
	assert.Equal(t, "brown", d.HairColor)
	assert.Equal(t, "hoodie", d.Clothing)
	assert.Equal(t, "happy", d.Eyes)
	assert.Equal(t, "smile", d.Mouth)
	assert.Equal(t, "b6e3f4", d.BackgroundColor)

	for _, f := range Fields {
		if v := Get(d, f); v != "" {
			assert.True(t, Allowed(f, v), "%s=%s", f, v)
		}
	}
}

func TestMerge(t *testing.T) {
	got := Merge(Default(), study.AvatarConfig{Top: "fro", Accessories: "round"})
	assert.Equal(t, "fro", got.Top)
	assert.Equal(t, "round", got.Accessories)
	assert.Equal(t, "hoodie", got.Clothing, "unset fields keep the base value")
	assert.Equal(t, DefaultBackground, got.BackgroundColor)

	assert.Equal(t, Default(), Merge(Default(), study.AvatarConfig{}))
}

func TestSanitize(t *testing.T) {
	got := Sanitize(study.AvatarConfig{Top: "mohawk", Eyes: "wink", BackgroundColor: "ffffff"})
	assert.Empty(t, got.Top)
	assert.Equal(t, "wink", got.Eyes)
	assert.Equal(t, "ffffff", got.BackgroundColor)
}

func TestCycle(t *testing.T) {
	tests := []struct {
		field, current string
		dir            int
		want           string
	}{
		{"skinColor", "tanned", 1, "yellow"},
		{"skinColor", "tanned", -1, "black"},
		{"skinColor", "black", 1, "tanned"},
		{"skinColor", "", 1, "yellow"},
		{"eyebrows", "sadConcerned", 1, "angry"},
		{"unknown", "x", 1, "x"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Cycle(tt.field, tt.current, tt.dir), "%s %s %d", tt.field, tt.current, tt.dir)
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "default look", Describe(study.AvatarConfig{}))
	assert.Equal(t, "top=bun, clothing=overall", Describe(study.AvatarConfig{Top: "bun", Clothing: "overall", Accessories: "none"}))
}

func TestGenerator(t *testing.T) {
	ctx := context.Background()

	t.Run("no provider", func(t *testing.T) {
		got, err := NewGenerator(nil, nil).Generate(ctx, "a wizard")
		var unavail *llm.ErrProviderUnavailable
		assert.ErrorAs(t, err, &unavail)
		assert.Equal(t, study.AvatarConfig{Top: "longHair", HairColor: "pink"}, got)
	})

	t.Run("provider failure", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Err: errors.New("quota")})
		got, err := NewGenerator(mock, nil).Generate(ctx, "a wizard")
		assert.Error(t, err)
		assert.Equal(t, study.AvatarConfig{Top: "shortHair", Clothing: "hoodie"}, got)
	})

	t.Run("generated", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockJSON(`{"top":"winterHat1","accessories":"sunglasses","mouth":"whistle"}`))
		got, err := NewGenerator(mock, nil).Generate(ctx, "cool skier")
		require.NoError(t, err)
		assert.Equal(t, study.AvatarConfig{Top: "winterHat1", Accessories: "sunglasses"}, got)

		req := mock.LastRequest()
		assert.Same(t, Schema, req.Schema)
		assert.Contains(t, req.Messages[0].Content, "cool skier")
	})

	t.Run("blank description", func(t *testing.T) {
		mock := llm.NewMockProvider()
		got, err := NewGenerator(mock, nil).Generate(ctx, "  ")
		require.NoError(t, err)
		assert.Equal(t, study.AvatarConfig{}, got)
		assert.Zero(t, mock.CallCount())
	})
}

func TestSchemaListsEveryField(t *testing.T) {
	props := Schema.Definition["properties"].(map[string]any)
	for _, f := range Fields {
		require.Contains(t, props, f)
		enum := props[f].(map[string]any)["enum"].([]any)
		assert.Len(t, enum, len(Options[f]))
	}
}
