// Package lessonmap shows the learner's path of lessons with their status,
// the daily quests and the streak goal.
package lessonmap

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyquest/internal/lessons"
	"github.com/abhisek/studyquest/internal/rewards"
	"github.com/abhisek/studyquest/internal/router"
	"github.com/abhisek/studyquest/internal/screen"
	"github.com/abhisek/studyquest/internal/study"
	"github.com/abhisek/studyquest/internal/ui/components"
	"github.com/abhisek/studyquest/internal/ui/layout"
	"github.com/abhisek/studyquest/internal/ui/theme"
)

// Profiles reads the learner profile.
type Profiles interface {
	Get(ctx context.Context) (*study.User, error)
}

// Lessons lists the lesson collection.
type Lessons interface {
	ListLessons(ctx context.Context) ([]study.Lesson, error)
}

// Opener builds the screen that studies a lesson.
type Opener func(lesson study.Lesson) screen.Screen

type loadedMsg struct {
	user    *study.User
	lessons []study.Lesson
	err     error
}

// MapScreen lists lessons in order and opens the selected one.
type MapScreen struct {
	profiles Profiles
	lessons  Lessons
	open     Opener
	now      func() time.Time

	user         *study.User
	items        []study.Lesson
	cursor       int
	scrollOffset int
	notice       string
	errMsg       string
	loaded       bool
}

var _ screen.Screen = (*MapScreen)(nil)
var _ screen.KeyHintProvider = (*MapScreen)(nil)

// New creates a MapScreen. A nil now uses time.Now.
func New(profiles Profiles, ls Lessons, open Opener, now func() time.Time) *MapScreen {
	if now == nil {
		now = time.Now
	}
	return &MapScreen{profiles: profiles, lessons: ls, open: open, now: now}
}

func (m *MapScreen) Init() tea.Cmd {
	return m.load()
}

func (m *MapScreen) Title() string {
	return "Study Map"
}

func (m *MapScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Study"},
		{Key: "r", Description: "Refresh"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (m *MapScreen) load() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		u, err := m.profiles.Get(ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		ls, err := m.lessons.ListLessons(ctx)
		return loadedMsg{user: u, lessons: ls, err: err}
	}
}

func (m *MapScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		return m.handleLoaded(msg)

	case screen.RefreshMsg:
		return m, m.load()

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			m.moveCursor(-1)
		case "down", "j":
			m.moveCursor(1)
		case "r":
			return m, m.load()
		case "enter":
			return m, m.selectLesson()
		}
	}
	return m, nil
}

func (m *MapScreen) handleLoaded(msg loadedMsg) (screen.Screen, tea.Cmd) {
	if msg.err != nil {
		m.errMsg = msg.err.Error()
		return m, nil
	}
	m.errMsg = ""
	m.loaded = true
	m.user = msg.user
	m.items = msg.lessons
	m.cursor = currentIndex(m.items)

	if m.user == nil {
		return m, nil
	}
	stats := layout.Stats{XP: m.user.XP, Streak: m.user.Streak}
	return m, func() tea.Msg { return screen.StatsMsg{Stats: stats} }
}

// currentIndex points at the OPEN lesson, or the last one when every
// lesson is done.
func currentIndex(items []study.Lesson) int {
	for i, l := range items {
		if l.Status == study.StatusOpen {
			return i
		}
	}
	if len(items) > 0 {
		return len(items) - 1
	}
	return 0
}

func (m *MapScreen) moveCursor(delta int) {
	next := m.cursor + delta
	if next >= 0 && next < len(m.items) {
		m.cursor = next
		m.notice = ""
	}
}

func (m *MapScreen) selectLesson() tea.Cmd {
	if m.cursor >= len(m.items) {
		return nil
	}
	l := m.items[m.cursor]
	if !l.Studyable() {
		m.notice = "Locked! Finish the earlier levels first."
		return nil
	}
	m.notice = ""
	next := m.open(l)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: next}
	}
}

func (m *MapScreen) View(width, height int) string {
	if m.errMsg != "" {
		msg := lipgloss.NewStyle().Foreground(theme.Error).Render("Could not load your map: " + m.errMsg)
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg)
	}
	if !m.loaded {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Hint.Render("Loading your world..."))
	}
	if len(m.items) == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("No lessons yet. Run setup to build your study world."))
	}

	side := m.renderSidebar()
	sideWidth := lipgloss.Width(side)
	pathWidth := width - sideWidth - 4
	if layout.IsCompactWidth(width) || pathWidth < 30 {
		return m.renderPath(width, height)
	}
	path := m.renderPath(pathWidth, height)
	return lipgloss.JoinHorizontal(lipgloss.Top, path, "  ", side)
}

func (m *MapScreen) renderPath(width, height int) string {
	var header strings.Builder
	subject := m.items[0].Subject
	header.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  " + subject))
	header.WriteString("\n")
	prog := lessons.ProgressOf(m.items)
	header.WriteString(components.Meter(fmt.Sprintf("  %d/%d levels", prog.Done, prog.Total), prog.Percent(), min(width, 60)))
	header.WriteString("\n")
	if m.notice != "" {
		header.WriteString(theme.Warning.Render("  " + m.notice))
		header.WriteString("\n")
	}
	header.WriteString("\n")

	headerLines := strings.Count(header.String(), "\n")
	rows := height - headerLines
	if rows < 1 {
		rows = 1
	}
	m.adjustScroll(rows)

	var lines []string
	for i := m.scrollOffset; i < len(m.items) && len(lines) < rows; i++ {
		lines = append(lines, m.renderRow(m.items[i], i == m.cursor, width))
	}
	return header.String() + strings.Join(lines, "\n")
}

func (m *MapScreen) renderRow(l study.Lesson, selected bool, width int) string {
	prefix := "   "
	if selected {
		prefix = " ▸ "
	}
	label := fmt.Sprintf("%s%s  Level %d: %s", prefix, l.Status.Icon(), l.Order+1, l.Title)
	if lipgloss.Width(label) > width && width > 3 {
		label = string([]rune(label)[:width-1]) + "…"
	}

	var style lipgloss.Style
	switch {
	case selected && l.Studyable():
		style = theme.PathCursor
	case l.Status == study.StatusDone:
		style = theme.PathCleared
	case l.Status == study.StatusOpen:
		style = theme.PathOpen
	default:
		style = theme.PathLocked
	}
	return style.Render(label)
}

func (m *MapScreen) renderSidebar() string {
	var b strings.Builder
	heading := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	b.WriteString(heading.Render("Daily Quests"))
	b.WriteString("\n")
	for _, q := range rewards.DailyQuests(m.user, m.now()) {
		mark := "○"
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if q.Done() {
			mark = "✓"
			style = lipgloss.NewStyle().Foreground(theme.Success)
		}
		b.WriteString(style.Render(fmt.Sprintf("%s %s  %d/%d", mark, q.Title, q.Progress, q.Target)))
		b.WriteString("\n")
	}

	streak := 0
	if m.user != nil {
		streak = m.user.Streak
	}
	b.WriteString("\n")
	b.WriteString(heading.Render("Streak Goal"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(
		fmt.Sprintf("🔥 %d → %d days", streak, rewards.NextStreakMilestone(streak))))

	return theme.Card.Render(b.String())
}

func (m *MapScreen) adjustScroll(rows int) {
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+rows {
		m.scrollOffset = m.cursor - rows + 1
	}
}
