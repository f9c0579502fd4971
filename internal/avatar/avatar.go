// Package avatar builds the learner's avatar appearance, either from the
// option lists or from a free-text description sent to the LLM.
package avatar

import (
	"strings"

	"github.com/abhisek/studyquest/internal/study"
)

// DefaultBackground is the background color of new avatars.
const DefaultBackground = "b6e3f4"

// Default returns the avatar every new profile starts with.
func Default() study.AvatarConfig {
	return study.AvatarConfig{
		SkinColor:       "light",
		Top:             "shortHair",
		HairColor:       "brown",
		Clothing:        "hoodie",
		Eyes:            "happy",
		Mouth:           "smile",
		BackgroundColor: DefaultBackground,
	}
}

var allFields = append(append([]string(nil), Fields...), "backgroundColor")

// Get returns the value of the named field.
func Get(c study.AvatarConfig, field string) string {
	if p := fieldPtr(&c, field); p != nil {
		return *p
	}
	return ""
}

// Set returns c with the named field replaced. Unknown fields are ignored.
func Set(c study.AvatarConfig, field, value string) study.AvatarConfig {
	if p := fieldPtr(&c, field); p != nil {
		*p = value
	}
	return c
}

func fieldPtr(c *study.AvatarConfig, field string) *string {
	switch field {
	case "top":
		return &c.Top
	case "accessories":
		return &c.Accessories
	case "hairColor":
		return &c.HairColor
	case "facialHair":
		return &c.FacialHair
	case "clothing":
		return &c.Clothing
	case "eyes":
		return &c.Eyes
	case "eyebrows":
		return &c.Eyebrows
	case "mouth":
		return &c.Mouth
	case "skinColor":
		return &c.SkinColor
	case "backgroundColor":
		return &c.BackgroundColor
	}
	return nil
}

// Merge overlays the non-empty fields of partial onto base.
func Merge(base, partial study.AvatarConfig) study.AvatarConfig {
	for _, f := range allFields {
		if v := Get(partial, f); v != "" {
			base = Set(base, f, v)
		}
	}
	return base
}

// Sanitize clears fields whose value is not in the option lists.
func Sanitize(c study.AvatarConfig) study.AvatarConfig {
	for _, f := range Fields {
		if v := Get(c, f); v != "" && !Allowed(f, v) {
			c = Set(c, f, "")
		}
	}
	return c
}

// Describe renders c as a short human-readable line.
func Describe(c study.AvatarConfig) string {
	var parts []string
	for _, f := range Fields {
		v := Get(c, f)
		if v == "" || v == "none" {
			continue
		}
		parts = append(parts, f+"="+v)
	}
	if len(parts) == 0 {
		return "default look"
	}
	return strings.Join(parts, ", ")
}
