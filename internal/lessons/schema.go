package lessons

import "github.com/abhisek/studyquest/internal/llm"

// SyllabusSchema defines the JSON schema for syllabus-to-levels generation.
var SyllabusSchema = &llm.Schema{
	Name:        "syllabus-levels",
	Description: "An ordered list of gamified study levels covering a syllabus",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"lessons": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title": map[string]any{
							"type":        "string",
							"description": "Creative level title in the style of an RPG quest, keeping the subject clear",
						},
						"description": map[string]any{
							"type":        "string",
							"description": "One short, fun sentence about what the level covers",
						},
					},
					"required":             []any{"title", "description"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"lessons"},
		"additionalProperties": false,
	},
}
