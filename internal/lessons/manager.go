// Package lessons owns the lesson collection: how it is generated from a
// syllabus and how lessons move from LOCKED to OPEN to DONE.
package lessons

import (
	"context"
	"fmt"

	"github.com/abhisek/studyquest/internal/study"
)

// Manager applies lesson transitions through the shared record guard.
type Manager struct {
	records *study.Records
}

// NewManager creates a Manager over records.
func NewManager(records *study.Records) *Manager {
	return &Manager{records: records}
}

// ListLessons returns the collection ordered by Order. An installation
// without a syllabus yields an empty slice, never an error.
func (m *Manager) ListLessons(ctx context.Context) ([]study.Lesson, error) {
	return m.records.Lessons(ctx)
}

// Lesson returns the lesson with id, or a *study.NotFoundError.
func (m *Manager) Lesson(ctx context.Context, id string) (study.Lesson, error) {
	lessons, err := m.records.Lessons(ctx)
	if err != nil {
		return study.Lesson{}, err
	}
	i := indexOf(lessons, id)
	if i < 0 {
		return study.Lesson{}, study.NotFound("lesson", id)
	}
	return lessons[i], nil
}

// CanStudy returns the lesson if a focus session may be opened on it.
// LOCKED lessons fail with study.ErrLessonLocked.
func (m *Manager) CanStudy(ctx context.Context, id string) (study.Lesson, error) {
	l, err := m.Lesson(ctx, id)
	if err != nil {
		return study.Lesson{}, err
	}
	if !l.Studyable() {
		return l, fmt.Errorf("lesson %q: %w", id, study.ErrLessonLocked)
	}
	return l, nil
}

// CompleteLesson marks id DONE and opens the lesson whose order follows
// it. Completing a DONE lesson again changes nothing. The earlier lessons
// are not inspected: any existing lesson may be completed. An unknown id
// fails with a *study.NotFoundError and nothing is written.
func (m *Manager) CompleteLesson(ctx context.Context, id string) ([]study.Lesson, error) {
	return m.records.UpdateLessons(ctx, func(lessons []study.Lesson) ([]study.Lesson, error) {
		i := indexOf(lessons, id)
		if i < 0 {
			return nil, study.NotFound("lesson", id)
		}
		done := lessons[i]
		lessons[i].Status = study.StatusDone

		for j := range lessons {
			if lessons[j].Order == done.Order+1 && lessons[j].Status == study.StatusLocked {
				lessons[j].Status = study.StatusOpen
			}
		}
		return lessons, nil
	})
}

// Progress reports how many lessons are done and which one is open.
func (m *Manager) Progress(ctx context.Context) (Progress, error) {
	lessons, err := m.records.Lessons(ctx)
	if err != nil {
		return Progress{}, err
	}
	return ProgressOf(lessons), nil
}

// ProgressOf summarizes an ordered collection.
func ProgressOf(lessons []study.Lesson) Progress {
	p := Progress{Total: len(lessons)}
	for i := range lessons {
		switch lessons[i].Status {
		case study.StatusDone:
			p.Done++
		case study.StatusOpen:
			if p.Current == nil {
				l := lessons[i]
				p.Current = &l
			}
		}
	}
	return p
}

// Install stores a newly generated collection, replacing any previous one.
func (m *Manager) Install(ctx context.Context, lessons []study.Lesson) error {
	if err := study.CheckCollection(lessons); err != nil {
		return fmt.Errorf("new collection: %w", err)
	}
	return m.records.ReplaceLessons(ctx, lessons)
}

func indexOf(lessons []study.Lesson, id string) int {
	for i := range lessons {
		if lessons[i].ID == id {
			return i
		}
	}
	return -1
}
