package study

import (
	"context"
	"fmt"
	"sync"
)

// Repository is the persistence gateway for the two learner records.
// Reads of a record that was never saved return (nil, nil) for the user
// and an empty slice for lessons. Writes replace the whole record.
type Repository interface {
	LoadUser(ctx context.Context) (*User, error)
	SaveUser(ctx context.Context, u *User) error
	LoadLessons(ctx context.Context) ([]Lesson, error)
	SaveLessons(ctx context.Context, lessons []Lesson) error
}

// Records serializes read-modify-write cycles per record so that the
// focus timer goroutine and the UI never interleave writes to the same
// record. The user and lesson records are guarded independently.
type Records struct {
	repo Repository

	userMu    sync.Mutex
	lessonsMu sync.Mutex
}

// NewRecords wraps repo.
func NewRecords(repo Repository) *Records {
	return &Records{repo: repo}
}

// User returns the stored profile, or nil when setup has not run.
func (r *Records) User(ctx context.Context) (*User, error) {
	r.userMu.Lock()
	defer r.userMu.Unlock()
	u, err := r.repo.LoadUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

// Lessons returns the stored collection ordered by Order.
func (r *Records) Lessons(ctx context.Context) ([]Lesson, error) {
	r.lessonsMu.Lock()
	defer r.lessonsMu.Unlock()
	return r.loadLessons(ctx)
}

func (r *Records) loadLessons(ctx context.Context) ([]Lesson, error) {
	lessons, err := r.repo.LoadLessons(ctx)
	if err != nil {
		return nil, fmt.Errorf("load lessons: %w", err)
	}
	if lessons == nil {
		lessons = []Lesson{}
	}
	SortByOrder(lessons)
	return lessons, nil
}

// CreateUser stores u as the installation's profile. It fails with
// ErrProfileExists when a profile is already present.
func (r *Records) CreateUser(ctx context.Context, u *User) error {
	r.userMu.Lock()
	defer r.userMu.Unlock()

	existing, err := r.repo.LoadUser(ctx)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if existing != nil {
		return ErrProfileExists
	}
	if err := r.repo.SaveUser(ctx, u); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// UpdateUser applies fn to the stored profile and writes the result back.
// It fails with ErrNoProfile when no profile exists; nothing is written
// when fn returns an error.
func (r *Records) UpdateUser(ctx context.Context, fn func(u *User) error) (*User, error) {
	r.userMu.Lock()
	defer r.userMu.Unlock()

	u, err := r.repo.LoadUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return nil, ErrNoProfile
	}
	if err := fn(u); err != nil {
		return nil, err
	}
	if err := r.repo.SaveUser(ctx, u); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	return u, nil
}

// UpdateLessons applies fn to the stored collection and writes back what
// fn returns. Nothing is written when fn returns an error.
func (r *Records) UpdateLessons(ctx context.Context, fn func(lessons []Lesson) ([]Lesson, error)) ([]Lesson, error) {
	r.lessonsMu.Lock()
	defer r.lessonsMu.Unlock()

	lessons, err := r.loadLessons(ctx)
	if err != nil {
		return nil, err
	}
	updated, err := fn(lessons)
	if err != nil {
		return nil, err
	}
	if err := r.repo.SaveLessons(ctx, updated); err != nil {
		return nil, fmt.Errorf("save lessons: %w", err)
	}
	return updated, nil
}

// ReplaceLessons stores a freshly generated collection.
func (r *Records) ReplaceLessons(ctx context.Context, lessons []Lesson) error {
	r.lessonsMu.Lock()
	defer r.lessonsMu.Unlock()
	if err := r.repo.SaveLessons(ctx, lessons); err != nil {
		return fmt.Errorf("save lessons: %w", err)
	}
	return nil
}
