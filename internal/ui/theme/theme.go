// Package theme holds the StudyQuest palette and the few shared styles
// that more than one screen renders with.
package theme

import "charm.land/lipgloss/v2"

// Palette. Green is progress, gold is reward, orange is the streak flame.
var (
	Primary   = lipgloss.Color("#58CC02")
	Secondary = lipgloss.Color("#1CB0F6")
	Accent    = lipgloss.Color("#FF9600")
	Gold      = lipgloss.Color("#FFC800")
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#F43F5E")

	Text    = lipgloss.Color("#F8FAFC")
	TextDim = lipgloss.Color("#94A3B8")
	BgDark  = lipgloss.Color("#111827")
	BgCard  = lipgloss.Color("#1F2937")
	Border  = lipgloss.Color("#374151")
)

var (
	Hint    = lipgloss.NewStyle().Foreground(TextDim).Italic(true)
	Warning = lipgloss.NewStyle().Foreground(Error).Bold(true)

	// Card is the sidebar and chat container.
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// Rows of the lesson path.
var (
	PathCursor  = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	PathCleared = lipgloss.NewStyle().Foreground(Gold)
	PathOpen    = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	PathLocked  = lipgloss.NewStyle().Foreground(TextDim).Faint(true)
)
