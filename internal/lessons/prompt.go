package lessons

import (
	"fmt"
	"strings"
)

const syllabusSystemPrompt = `You are a study planner who turns dry syllabi into an adventure. You break material into levels a learner can finish in one focus session each.`

func buildSyllabusUserMessage(input SyllabusInput, cfg Config) string {
	var b strings.Builder

	b.WriteString("Syllabus:\n")
	b.WriteString(input.Text)
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Days available: %d\n", input.Days))

	hardest := strings.TrimSpace(input.HardestTopic)
	if hardest == "" {
		hardest = "not specified"
	}
	b.WriteString(fmt.Sprintf("Hardest topic: %s\n", hardest))

	b.WriteString(fmt.Sprintf(`
Instructions:
1. Break this syllabus down into %d-%d logical, gamified levels, in the order they should be studied.
2. Title them creatively (like RPG quests or adventure levels) but keep the subject clear.
3. Add a short, fun description for each level.
4. Give the hardest topic extra room: split it across more than one level.
5. Use plain text only. No Markdown.`, cfg.MinLessons, cfg.MaxLessons))

	return b.String()
}
