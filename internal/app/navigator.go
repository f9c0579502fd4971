package app

import (
	"time"

	"github.com/abhisek/studyquest/internal/focus"
	"github.com/abhisek/studyquest/internal/lessons"
	"github.com/abhisek/studyquest/internal/profile"
	"github.com/abhisek/studyquest/internal/screen"
	focusscreen "github.com/abhisek/studyquest/internal/screens/focus"
	"github.com/abhisek/studyquest/internal/screens/landing"
	"github.com/abhisek/studyquest/internal/screens/lessonmap"
	setupscreen "github.com/abhisek/studyquest/internal/screens/setup"
	"github.com/abhisek/studyquest/internal/study"
)

// Navigator builds the screens of the app and decides where it starts.
type Navigator struct {
	Profiles *profile.Service
	Lessons  *lessons.Manager
	Focus    *focus.Controller
	Setup    setupscreen.Runner
	// Tutor is optional; the focus screen hides the chat without it.
	Tutor    focusscreen.Tutor
	Defaults setupscreen.Defaults
	Now      func() time.Time
}

// InitialScreen is the landing page for a new installation and the lesson
// map once a profile exists.
func (n *Navigator) InitialScreen(hasProfile bool) screen.Screen {
	if hasProfile {
		return n.Map()
	}
	return n.Landing()
}

// Landing returns the title screen leading to setup.
func (n *Navigator) Landing() screen.Screen {
	return landing.New(n.SetupForm)
}

// SetupForm returns the onboarding form leading to the map.
func (n *Navigator) SetupForm() screen.Screen {
	return setupscreen.New(n.Setup, n.Defaults, n.Map)
}

// Map returns the lesson map.
func (n *Navigator) Map() screen.Screen {
	return lessonmap.New(n.Profiles, n.Lessons, n.Study, n.Now)
}

// Study returns the focus screen for lesson.
func (n *Navigator) Study(lesson study.Lesson) screen.Screen {
	return focusscreen.New(lesson, n.Focus, n.Tutor)
}
