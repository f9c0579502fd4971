package study

import (
	"encoding/json"
	"fmt"
	"time"
)

// AvatarConfig is the learner's avatar appearance. Values are option names
// understood by the avatar renderer; empty fields fall back to its defaults.
type AvatarConfig struct {
	Top             string `json:"top,omitempty"`
	Accessories     string `json:"accessories,omitempty"`
	HairColor       string `json:"hairColor,omitempty"`
	FacialHair      string `json:"facialHair,omitempty"`
	Clothing        string `json:"clothing,omitempty"`
	Eyes            string `json:"eyes,omitempty"`
	Eyebrows        string `json:"eyebrows,omitempty"`
	Mouth           string `json:"mouth,omitempty"`
	SkinColor       string `json:"skinColor,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
}

// User is the single learner profile of an installation.
type User struct {
	ID              string       `json:"id"`
	DisplayName     string       `json:"displayName"`
	XP              int          `json:"xp"`
	Streak          int          `json:"streak"`
	LastStudyDate   time.Time    `json:"lastStudyDate"`
	LastSessionAt   time.Time    `json:"lastSessionAt"` // last XP award; zero before the first session
	DailyGoalHours  float64      `json:"dailyGoalHours"`
	HardestSubject  string       `json:"hardestSubject"`
	FavoriteSubject string       `json:"favoriteSubject"`
	Avatar          AvatarConfig `json:"avatarConfig"`
	CreatedAt       time.Time    `json:"createdAt"`
}

// LessonStatus is a lesson's position in the LOCKED -> OPEN -> DONE progression.
type LessonStatus string

const (
	StatusLocked LessonStatus = "LOCKED"
	StatusOpen   LessonStatus = "OPEN"
	StatusDone   LessonStatus = "DONE"
)

// Valid reports whether s is one of the known statuses.
func (s LessonStatus) Valid() bool {
	switch s {
	case StatusLocked, StatusOpen, StatusDone:
		return true
	}
	return false
}

// rank orders statuses so that transitions can be checked for monotonicity.
func (s LessonStatus) rank() int {
	switch s {
	case StatusOpen:
		return 1
	case StatusDone:
		return 2
	default:
		return 0
	}
}

// Before reports whether s comes strictly before other in the progression.
func (s LessonStatus) Before(other LessonStatus) bool {
	return s.rank() < other.rank()
}

// Icon returns the map marker for the status.
func (s LessonStatus) Icon() string {
	switch s {
	case StatusDone:
		return "★"
	case StatusOpen:
		return "▶"
	default:
		return "🔒"
	}
}

// UnmarshalJSON rejects unknown status strings so that a corrupted record
// surfaces as a decode error instead of a silently locked lesson.
func (s *LessonStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	v := LessonStatus(raw)
	if !v.Valid() {
		return fmt.Errorf("unknown lesson status %q", raw)
	}
	*s = v
	return nil
}

// Lesson is one level of the learner's syllabus.
type Lesson struct {
	ID          string       `json:"id"`
	Order       int          `json:"order"`
	Status      LessonStatus `json:"status"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Subject     string       `json:"subject"`
}

// Studyable reports whether a focus session may be opened on the lesson.
// Finished lessons can be replayed; locked ones cannot.
func (l Lesson) Studyable() bool {
	return l.Status != StatusLocked
}

// CloneLessons returns a copy of lessons that can be mutated freely.
func CloneLessons(lessons []Lesson) []Lesson {
	if lessons == nil {
		return []Lesson{}
	}
	out := make([]Lesson, len(lessons))
	copy(out, lessons)
	return out
}
