package study

import (
	"errors"
	"fmt"
)

var (
	// ErrNoProfile is returned by operations that need a learner profile
	// before setup has created one.
	ErrNoProfile = errors.New("no learner profile")

	// ErrProfileExists is returned when setup runs against an installation
	// that already has a profile.
	ErrProfileExists = errors.New("learner profile already exists")

	// ErrNotFound is the sentinel wrapped by *NotFoundError.
	ErrNotFound = errors.New("not found")

	// ErrLessonLocked is returned when a focus session is requested for a
	// lesson that has not been unlocked yet.
	ErrLessonLocked = errors.New("lesson is locked")
)

// NotFoundError reports a lookup by identifier that matched nothing.
type NotFoundError struct {
	Resource string
	ID       string
}

// NotFound builds a *NotFoundError for resource/id.
func NotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
