package lessons

// GeneratedSubject labels lessons produced by the AI generator.
const GeneratedSubject = "Custom Syllabus"

// Config holds syllabus generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
	MinLessons  int
	MaxLessons  int
}

// DefaultConfig returns sensible defaults for syllabus generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   2048,
		Temperature: 0.7,
		MinLessons:  10,
		MaxLessons:  15,
	}
}
