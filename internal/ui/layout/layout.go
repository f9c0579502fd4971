// Package layout draws the chrome around every screen: a header with the
// learner's XP and streak, a footer of key hints, and the body between.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyquest/internal/ui/theme"
)

const (
	MinWidth  = 60
	MinHeight = 20

	// Below this width screens drop their sidebars.
	CompactWidth = 100
)

// KeyHint is one "key action" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// Stats is the learner summary shown in the header.
type Stats struct {
	XP     int
	Streak int
}

// IsCompactWidth reports whether width is too narrow for side panels.
func IsCompactWidth(width int) bool { return width < CompactWidth }

// Frame is one rendered terminal screen.
type Frame struct {
	Title string
	// Stats is hidden when nil (before setup).
	Stats  *Stats
	Hints  []KeyHint
	Width  int
	Height int
}

// Render lays out the frame and asks body for content sized to the space
// left between header and footer. Terminals below MinWidth x MinHeight get
// a resize notice instead.
func (f Frame) Render(body func(width, height int) string) string {
	if f.Width < MinWidth || f.Height < MinHeight {
		return lipgloss.Place(f.Width, f.Height, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(fmt.Sprintf(
				"StudyQuest needs a bigger window.\n\nAt least %d x %d, currently %d x %d.",
				MinWidth, MinHeight, f.Width, f.Height)))
	}

	header := f.header()
	footer := f.footer()
	h := max(f.Height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := lipgloss.NewStyle().Width(f.Width).Height(h).MaxHeight(h).Render(body(f.Width, h))
	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)
}

func (f Frame) header() string {
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("StudyQuest")
	title := lipgloss.NewStyle().Foreground(theme.Text).Render(f.Title)
	stats := ""
	if f.Stats != nil {
		stats = lipgloss.NewStyle().Foreground(theme.Gold).Render(fmt.Sprintf("⚡ %d XP", f.Stats.XP)) +
			"   " +
			lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("🔥 %d", f.Stats.Streak))
	}

	// Border and padding take four columns.
	inner := max(f.Width-4, 0)
	bw, tw, sw := lipgloss.Width(brand), lipgloss.Width(title), lipgloss.Width(stats)
	left := max((inner-tw)/2-bw, 1)
	right := max(inner-bw-left-tw-sw, 1)
	return bar(f.Width).Render(brand + strings.Repeat(" ", left) + title + strings.Repeat(" ", right) + stats)
}

func (f Frame) footer() string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)
	parts := make([]string, len(f.Hints))
	for i, h := range f.Hints {
		parts[i] = key.Render(h.Key) + " " + desc.Render(h.Description)
	}
	return bar(f.Width).Render(strings.Join(parts, "   "))
}
