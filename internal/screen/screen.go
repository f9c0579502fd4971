package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studyquest/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Closer is implemented by screens that own resources, such as a running
// timer. The router calls Close when the screen leaves the stack.
type Closer interface {
	Close()
}

// EscapeHandler is implemented by screens that handle Esc themselves
// instead of letting the app pop them.
type EscapeHandler interface {
	HandlesEscape() bool
}

// RefreshMsg asks the active screen to reload its data, typically after
// the screen above it was popped.
type RefreshMsg struct{}

// StatsMsg carries fresh learner totals for the header. The app consumes
// it; screens emit it after loading or changing the profile.
type StatsMsg struct {
	Stats layout.Stats
}
