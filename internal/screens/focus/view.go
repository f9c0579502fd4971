package focus

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyquest/internal/focus"
	"github.com/abhisek/studyquest/internal/ui/components"
	"github.com/abhisek/studyquest/internal/ui/theme"
)

const chatWidth = 38

func (s *FocusScreen) View(width, height int) string {
	if s.errMsg != "" {
		msg := lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render(s.errMsg)
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg)
	}
	if s.session == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Hint.Render("Preparing your session..."))
	}

	if s.snap.State == focus.StateFinished {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s.renderCelebration())
	}

	if !s.chatOpen {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s.renderTimer(width))
	}
	timerWidth := width - chatWidth - 2
	if timerWidth < 30 {
		return s.renderChat(width, height)
	}
	timer := lipgloss.Place(timerWidth, height, lipgloss.Center, lipgloss.Center, s.renderTimer(timerWidth))
	return lipgloss.JoinHorizontal(lipgloss.Top, timer, "  ", s.renderChat(chatWidth, height))
}

// formatClock renders seconds as MM:SS.
func formatClock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func (s *FocusScreen) renderTimer(width int) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(s.lesson.Title))
	b.WriteString("\n")
	if s.lesson.Description != "" {
		b.WriteString(lipgloss.NewStyle().
			Width(min(width-4, 60)).
			Foreground(theme.TextDim).
			Render(s.lesson.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	clockStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	status := ""
	switch s.snap.State {
	case focus.StateReady:
		status = "Ready when you are"
	case focus.StateRunning:
		clockStyle = clockStyle.Foreground(theme.Secondary)
		status = "Focusing..."
	case focus.StatePaused:
		clockStyle = clockStyle.Foreground(theme.Accent)
		status = "Paused"
	case focus.StateAborted:
		status = "Session abandoned"
	}
	b.WriteString(clockStyle.Render(formatClock(s.snap.RemainingSeconds)))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(status))
	b.WriteString("\n\n")

	b.WriteString(components.Meter("", s.snap.Progress(), min(width-4, 50)))

	if s.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Warning.Render(s.notice))
	}
	return lipgloss.NewStyle().Align(lipgloss.Center).Render(b.String())
}

func (s *FocusScreen) renderCelebration() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).Render("★ LEVEL COMPLETE ★"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(s.lesson.Title))
	b.WriteString("\n\n")

	out := s.snap.Outcome
	if out == nil {
		b.WriteString(theme.Hint.Render("Saving your progress..."))
		return components.Panel(b.String(), 40, theme.Gold)
	}

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Gold).Render(fmt.Sprintf("+%d XP", out.XP)))
	if out.User != nil {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("🔥 %d day streak", out.User.Streak)))
	}
	if s.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Warning.Render(s.notice))
	}
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render("press enter to return to the map"))
	return components.Panel(b.String(), 40, theme.Gold)
}

func (s *FocusScreen) renderChat(width, height int) string {
	inner := width - 4
	var lines []string
	for _, t := range s.history {
		who := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Nova")
		if t.FromUser {
			who = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("You")
		}
		body := lipgloss.NewStyle().Width(inner).Foreground(theme.Text).Render(t.Text)
		lines = append(lines, who, body, "")
	}
	if s.thinking {
		lines = append(lines, theme.Hint.Render("Nova is thinking..."))
	}

	// Keep the newest messages in view.
	budget := height - 6
	if budget < 1 {
		budget = 1
	}
	text := strings.Join(lines, "\n")
	all := strings.Split(text, "\n")
	if len(all) > budget {
		all = all[len(all)-budget:]
	}

	content := strings.Join(all, "\n") + "\n" + s.input.View()
	return theme.Card.Width(width).Render(content)
}
