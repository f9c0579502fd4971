package lessons

import "github.com/abhisek/studyquest/internal/study"

// Draft is a generated lesson before it joins a collection: the
// generator decides the words, the collection decides id, order and status.
type Draft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	// Subject overrides the collection subject when set.
	Subject string `json:"-"`
}

// SyllabusInput holds everything the generator is told about the learner.
type SyllabusInput struct {
	Text         string
	Days         int
	HardestTopic string
}

// Progress summarizes how far the learner has come.
type Progress struct {
	Done    int
	Total   int
	Current *study.Lesson // the OPEN lesson, nil when none
}

// Complete reports whether every lesson is done.
func (p Progress) Complete() bool {
	return p.Total > 0 && p.Done == p.Total
}

// Percent returns completion in the range [0, 1].
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Done) / float64(p.Total)
}
