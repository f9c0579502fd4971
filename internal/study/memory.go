package study

import (
	"context"
	"sync"
)

// MemoryRepository is an in-process Repository. It deep-copies on every
// read and write so callers cannot alias stored state, and it counts
// writes for assertions in tests.
type MemoryRepository struct {
	mu      sync.Mutex
	user    *User
	lessons []Lesson

	UserSaves   int
	LessonSaves int

	// Err, when set, is returned by every operation.
	Err error
}

// NewMemoryRepository creates a repository seeded with the given records.
// Either may be nil.
func NewMemoryRepository(user *User, lessons []Lesson) *MemoryRepository {
	m := &MemoryRepository{}
	if user != nil {
		u := *user
		m.user = &u
	}
	if lessons != nil {
		m.lessons = CloneLessons(lessons)
	}
	return m
}

func (m *MemoryRepository) LoadUser(_ context.Context) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if m.user == nil {
		return nil, nil
	}
	u := *m.user
	return &u, nil
}

func (m *MemoryRepository) SaveUser(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	cp := *u
	m.user = &cp
	m.UserSaves++
	return nil
}

func (m *MemoryRepository) LoadLessons(_ context.Context) ([]Lesson, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return CloneLessons(m.lessons), nil
}

func (m *MemoryRepository) SaveLessons(_ context.Context, lessons []Lesson) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.lessons = CloneLessons(lessons)
	m.LessonSaves++
	return nil
}

// Saves returns the number of user and lesson writes so far.
func (m *MemoryRepository) Saves() (user, lessons int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.UserSaves, m.LessonSaves
}

// HasLessons reports whether a lesson record has ever been written or seeded.
func (m *MemoryRepository) HasLessons() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lessons != nil
}
