// Package setup is the onboarding form: syllabus, exam date, daily goal,
// subjects and avatar, then the generation of the study world.
package setup

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyquest/internal/router"
	"github.com/abhisek/studyquest/internal/screen"
	onboard "github.com/abhisek/studyquest/internal/setup"
	"github.com/abhisek/studyquest/internal/ui/components"
	"github.com/abhisek/studyquest/internal/ui/layout"
	"github.com/abhisek/studyquest/internal/ui/theme"
)

// Runner performs onboarding.
type Runner interface {
	Run(ctx context.Context, in onboard.Input) (*onboard.Result, error)
}

// Defaults pre-fill the numeric fields.
type Defaults struct {
	Days  int
	Hours float64
}

type step int

const (
	stepSyllabus step = iota
	stepDays
	stepHours
	stepHardest
	stepFavorite
	stepAvatar
	stepRunning
	stepDone
)

type field struct {
	prompt string
	hint   string
	input  components.TextInput
}

type resultMsg struct {
	result *onboard.Result
	err    error
}

// SetupScreen collects the onboarding answers and runs setup.
type SetupScreen struct {
	runner     Runner
	mapFactory func() screen.Screen

	step     step
	syllabus textarea.Model
	fields   map[step]*field
	spinner  spinner.Model
	errMsg   string
	result   *onboard.Result
	width    int
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)
var _ screen.EscapeHandler = (*SetupScreen)(nil)

// New creates a SetupScreen that replaces itself with the screen from
// mapFactory once the world is built.
func New(runner Runner, defaults Defaults, mapFactory func() screen.Screen) *SetupScreen {
	ta := textarea.New()
	ta.Placeholder = "Paste your syllabus, topics or exam outline here..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 12000
	ta.SetWidth(60)
	ta.SetHeight(10)
	ta.Focus()

	days := components.NewTextInput("30", components.ModeInteger, 4)
	if defaults.Days > 0 {
		days.SetValue(strconv.Itoa(defaults.Days))
	}
	hours := components.NewTextInput("1", components.ModeDecimal, 4)
	if defaults.Hours > 0 {
		hours.SetValue(strconv.FormatFloat(defaults.Hours, 'f', -1, 64))
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Primary)

	return &SetupScreen{
		runner:     runner,
		mapFactory: mapFactory,
		syllabus:   ta,
		spinner:    sp,
		fields: map[step]*field{
			stepDays:     {prompt: "How many days until your exam?", input: days},
			stepHours:    {prompt: "How many hours can you study each day?", input: hours},
			stepHardest:  {prompt: "Which subject is the hardest for you?", hint: "optional", input: components.NewTextInput("e.g. Organic Chemistry", components.ModeText, 80)},
			stepFavorite: {prompt: "And your favorite subject?", hint: "optional", input: components.NewTextInput("e.g. History", components.ModeText, 80)},
			stepAvatar:   {prompt: "Describe your avatar", hint: "optional, e.g. a wizard with pink hair", input: components.NewTextInput("Leave empty for the default look", components.ModeText, 200)},
		},
	}
}

func (s *SetupScreen) Init() tea.Cmd {
	return textarea.Blink
}

func (s *SetupScreen) Title() string {
	return "Build Your World"
}

// HandlesEscape reports true: Esc goes back one question.
func (s *SetupScreen) HandlesEscape() bool {
	return true
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	switch s.step {
	case stepSyllabus:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	case stepRunning:
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	case stepDone:
		return []layout.KeyHint{{Key: "Enter", Description: "Enter your world"}}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Next"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		return s.handleResult(msg)

	case spinner.TickMsg:
		if s.step != stepRunning {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s.forward(msg)
}

func (s *SetupScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	switch s.step {
	case stepRunning:
		return s, nil
	case stepDone:
		if key == "enter" {
			next := s.mapFactory()
			return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		}
		return s, nil
	case stepSyllabus:
		if key == "tab" || key == "ctrl+s" {
			return s.advance()
		}
		return s.forward(msg)
	}

	switch key {
	case "enter":
		return s.advance()
	case "esc":
		s.errMsg = ""
		s.step--
		if s.step == stepSyllabus {
			return s, s.syllabus.Focus()
		}
		return s, nil
	}
	return s.forward(msg)
}

func (s *SetupScreen) forward(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch s.step {
	case stepSyllabus:
		s.syllabus, cmd = s.syllabus.Update(msg)
	case stepRunning, stepDone:
	default:
		f := s.fields[s.step]
		f.input, cmd = f.input.Update(msg)
	}
	return s, cmd
}

// advance validates the current answer and moves to the next question,
// running setup after the last one.
func (s *SetupScreen) advance() (screen.Screen, tea.Cmd) {
	s.errMsg = ""
	switch s.step {
	case stepSyllabus:
		if strings.TrimSpace(s.syllabus.Value()) == "" {
			s.errMsg = "Paste at least a few topics to study."
			return s, nil
		}
		s.syllabus.Blur()
	case stepDays:
		n, err := s.fields[stepDays].input.IntValue()
		if err != nil || n < 1 {
			s.errMsg = "Enter a whole number of days, at least 1."
			return s, nil
		}
	case stepHours:
		h, err := s.fields[stepHours].input.FloatValue()
		if err != nil || h <= 0 {
			s.errMsg = "Enter a positive number of hours."
			return s, nil
		}
	case stepAvatar:
		return s.run()
	}
	s.step++
	return s, s.fields[s.step].input.Init()
}

// Input returns the answers collected so far.
func (s *SetupScreen) Input() onboard.Input {
	days, _ := s.fields[stepDays].input.IntValue()
	hours, _ := s.fields[stepHours].input.FloatValue()
	return onboard.Input{
		Syllabus:          s.syllabus.Value(),
		Days:              days,
		DailyGoalHours:    hours,
		HardestSubject:    s.fields[stepHardest].input.Value(),
		FavoriteSubject:   s.fields[stepFavorite].input.Value(),
		AvatarDescription: s.fields[stepAvatar].input.Value(),
	}
}

func (s *SetupScreen) run() (screen.Screen, tea.Cmd) {
	in := s.Input()
	if err := in.Validate(); err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	s.step = stepRunning
	runner := s.runner
	return s, tea.Batch(s.spinner.Tick, func() tea.Msg {
		res, err := runner.Run(context.Background(), in)
		return resultMsg{result: res, err: err}
	})
}

func (s *SetupScreen) handleResult(msg resultMsg) (screen.Screen, tea.Cmd) {
	if msg.err != nil {
		s.step = stepAvatar
		s.errMsg = "Setup failed: " + msg.err.Error()
		return s, nil
	}
	s.result = msg.result
	s.step = stepDone
	if u := msg.result.User; u != nil {
		stats := layout.Stats{XP: u.XP, Streak: u.Streak}
		return s, func() tea.Msg { return screen.StatsMsg{Stats: stats} }
	}
	return s, nil
}

func (s *SetupScreen) View(width, height int) string {
	s.width = width
	cw := min(width-4, 64)
	s.syllabus.SetWidth(cw)

	var body string
	switch s.step {
	case stepRunning:
		body = s.spinner.View() + " " + lipgloss.NewStyle().Foreground(theme.Text).Render("Building your study world...")
	case stepDone:
		body = s.renderDone()
	case stepSyllabus:
		body = s.renderQuestion("What are you studying for?", "paste your syllabus", s.syllabus.View())
	default:
		f := s.fields[s.step]
		body = s.renderQuestion(f.prompt, f.hint, f.input.View())
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func (s *SetupScreen) renderQuestion(prompt, hint, input string) string {
	progress := theme.Hint.Render(fmt.Sprintf("Step %d of %d", int(s.step)+1, int(stepAvatar)+1))
	title := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(prompt)
	out := progress + "\n" + title
	if hint != "" {
		out += "\n" + theme.Hint.Render(hint)
	}
	out += "\n\n" + input
	if s.errMsg != "" {
		out += "\n\n" + theme.Warning.Render(s.errMsg)
	}
	return out
}

func (s *SetupScreen) renderDone() string {
	r := s.result
	out := lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).Render("Your world is ready!")
	out += "\n\n" + lipgloss.NewStyle().Foreground(theme.Text).Render(fmt.Sprintf("%d levels await.", len(r.Lessons)))
	if r.Fallback {
		out += "\n" + theme.Hint.Render("AI was unavailable, so you got the starter plan.")
	}
	out += "\n\n" + theme.Hint.Render("press enter to continue")
	return components.Panel(out, components.PanelWidth(s.width), theme.Primary)
}
