// Package landing is the first screen a new learner sees.
package landing

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyquest/internal/router"
	"github.com/abhisek/studyquest/internal/screen"
	"github.com/abhisek/studyquest/internal/ui/components"
	"github.com/abhisek/studyquest/internal/ui/layout"
	"github.com/abhisek/studyquest/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 400 * time.Millisecond
	phase2End    = 1200 * time.Millisecond
)

const mascotArt = `    ╭─────────╮
    │ ◉     ◉ │
    │    ▽    │
  ╭─┴─────────┴─╮
  │ ▤▤▤  ▤▤▤▤▤ │
  ╰─────────────╯`

var sparkleFrames = []string{"★", "✦"}

type tickMsg time.Time

// LandingScreen shows the title animation and waits for the learner to
// start setup.
type LandingScreen struct {
	setupFactory func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*LandingScreen)(nil)
var _ screen.KeyHintProvider = (*LandingScreen)(nil)

// New creates a LandingScreen that moves to the screen produced by
// setupFactory when the learner presses enter.
func New(setupFactory func() screen.Screen) *LandingScreen {
	return &LandingScreen{setupFactory: setupFactory}
}

func (l *LandingScreen) Title() string {
	return ""
}

func (l *LandingScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Start my study world"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (l *LandingScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (l *LandingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		l.tickCount++
		if l.elapsed < phase2End {
			l.elapsed += tickInterval
		}
		// Keep ticking only while sparkles animate.
		if l.transitioned {
			return l, nil
		}
		return l, tick()

	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter", "space":
			// The first press skips the intro; the next one starts setup.
			if l.elapsed < phase2End {
				l.elapsed = phase2End
				return l, nil
			}
			return l, l.transition()
		}
	}
	return l, nil
}

func (l *LandingScreen) transition() tea.Cmd {
	if l.transitioned {
		return nil
	}
	l.transitioned = true
	next := l.setupFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (l *LandingScreen) View(width, height int) string {
	var sections []string

	rendered := lipgloss.NewStyle().Foreground(theme.Secondary).Render(mascotArt)

	if l.elapsed >= phase1End {
		sparkle := sparkleFrames[l.tickCount%len(sparkleFrames)]
		s1 := lipgloss.NewStyle().Foreground(theme.Gold).Render(sparkle)
		s2 := lipgloss.NewStyle().Foreground(theme.Primary).Render(sparkle)

		lines := strings.Split(rendered, "\n")
		if len(lines) > 1 {
			lines[0] = s1 + "  " + lines[0] + "  " + s2
		}
		if len(lines) > 4 {
			lines[4] = s2 + "  " + lines[4] + "  " + s1
		}
		rendered = strings.Join(lines, "\n")
	}
	sections = append(sections, rendered)

	if l.elapsed >= phase2End {
		sections = append(sections, "", RenderBanner(width), "")

		tagline := lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render("Turn your boring syllabus into an epic adventure.")
		sub := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render("Level up, earn XP, and master your exams.")
		button := components.Button("Start My Study World", true, 28)
		hint := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press enter")
		sections = append(sections, tagline, sub, "", button, hint)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
