// Package app hosts the Bubble Tea program: the screen router inside the
// shared header and footer.
package app

import (
	"context"
	"fmt"
	"log/slog"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studyquest/internal/logging"
	"github.com/abhisek/studyquest/internal/router"
	"github.com/abhisek/studyquest/internal/screen"
	"github.com/abhisek/studyquest/internal/ui/layout"
)

// Options configures Run.
type Options struct {
	Navigator *Navigator
	Logger    *slog.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	stats  *layout.Stats
	logger *slog.Logger
	width  int
	height int
}

// newAppModel starts on the navigator's initial screen and shows the
// profile totals in the header when a profile exists.
func newAppModel(ctx context.Context, opts Options) (AppModel, error) {
	nav := opts.Navigator
	u, err := nav.Profiles.Get(ctx)
	if err != nil {
		return AppModel{}, fmt.Errorf("load profile: %w", err)
	}
	m := AppModel{
		router: router.New(nav.InitialScreen(u != nil)),
		logger: logging.Or(opts.Logger),
	}
	if u != nil {
		m.stats = &layout.Stats{XP: u.XP, Streak: u.Streak}
	}
	return m, nil
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.StatsMsg:
		stats := msg.Stats
		m.stats = &stats
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			m.router.Close()
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	f := layout.Frame{Stats: m.stats, Width: m.width, Height: m.height}
	if active := m.router.Active(); active != nil {
		f.Title = active.Title()
		if p, ok := active.(screen.KeyHintProvider); ok {
			f.Hints = p.KeyHints()
		}
	}
	if f.Hints == nil {
		f.Hints = []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
		if m.router.Depth() > 1 {
			f.Hints = append([]layout.KeyHint{{Key: "Esc", Description: "Back"}}, f.Hints...)
		}
	}
	v.SetContent(f.Render(m.router.View))
	return v
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	m, err := newAppModel(ctx, opts)
	if err != nil {
		return err
	}
	defer m.router.Close()

	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		m.logger.Error("tui exited with error", "err", err)
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
