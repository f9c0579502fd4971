// Package focus is the screen that runs a focus session on one lesson,
// with the tutor chat beside the timer.
package focus

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studyquest/internal/focus"
	"github.com/abhisek/studyquest/internal/router"
	"github.com/abhisek/studyquest/internal/screen"
	"github.com/abhisek/studyquest/internal/study"
	"github.com/abhisek/studyquest/internal/tutor"
	"github.com/abhisek/studyquest/internal/ui/components"
	"github.com/abhisek/studyquest/internal/ui/layout"
)

const greeting = "Hi! I am Nova. Stuck? Ask me anything!"

// Sessions opens focus sessions.
type Sessions interface {
	Open(ctx context.Context, lessonID string) (*focus.Session, error)
}

// Tutor answers chat messages about the lesson.
type Tutor interface {
	Reply(ctx context.Context, history []tutor.Turn, lesson, message string) (string, error)
}

// FocusScreen shows the countdown for a lesson.
type FocusScreen struct {
	lesson   study.Lesson
	sessions Sessions
	tutor    Tutor

	session *focus.Session
	snap    focus.Snapshot
	errMsg  string
	// notice reports a failure that did not end the session.
	notice string

	chatOpen bool
	thinking bool
	history  []tutor.Turn
	input    components.TextInput
}

var _ screen.Screen = (*FocusScreen)(nil)
var _ screen.KeyHintProvider = (*FocusScreen)(nil)
var _ screen.Closer = (*FocusScreen)(nil)
var _ screen.EscapeHandler = (*FocusScreen)(nil)

// New creates a FocusScreen for lesson. A nil tutor hides the chat.
func New(lesson study.Lesson, sessions Sessions, t Tutor) *FocusScreen {
	return &FocusScreen{
		lesson:   lesson,
		sessions: sessions,
		tutor:    t,
		history:  []tutor.Turn{{Text: greeting}},
		input:    components.NewTextInput("Ask Nova...", components.ModeText, 280),
	}
}

func (s *FocusScreen) Init() tea.Cmd {
	sessions, id := s.sessions, s.lesson.ID
	return func() tea.Msg {
		sess, err := sessions.Open(context.Background(), id)
		return openedMsg{session: sess, err: err}
	}
}

func (s *FocusScreen) Title() string {
	return s.lesson.Title
}

// HandlesEscape reports true: Esc aborts the session or closes the chat.
func (s *FocusScreen) HandlesEscape() bool {
	return true
}

// Close aborts a session that is still running.
func (s *FocusScreen) Close() {
	if s.session != nil {
		s.session.Close()
	}
}

func (s *FocusScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	case s.chatOpen:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Send"},
			{Key: "Tab/Esc", Description: "Close chat"},
		}
	case s.snap.State == focus.StateFinished:
		return []layout.KeyHint{{Key: "Enter", Description: "Back to map"}}
	}

	action := "Start"
	switch s.snap.State {
	case focus.StateRunning:
		action = "Pause"
	case focus.StatePaused:
		action = "Resume"
	}
	hints := []layout.KeyHint{
		{Key: "Space", Description: action},
		{Key: "f", Description: "Finish"},
		{Key: "Esc", Description: "Give up"},
	}
	if s.tutor != nil {
		hints = append(hints, layout.KeyHint{Key: "Tab", Description: "Ask Nova"})
	}
	return hints
}

// waitForUpdate reads the next snapshot from sess.
func waitForUpdate(sess *focus.Session) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-sess.Updates()
		if !ok {
			return updatesClosedMsg{session: sess}
		}
		return snapshotMsg{session: sess, snap: snap}
	}
}

func (s *FocusScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case openedMsg:
		if msg.err != nil {
			s.errMsg = openError(msg.err)
			return s, nil
		}
		s.session = msg.session
		s.snap = msg.session.Snapshot()
		return s, waitForUpdate(msg.session)

	case snapshotMsg:
		if msg.session != s.session {
			return s, nil
		}
		return s, tea.Batch(s.applySnapshot(msg.snap), waitForUpdate(msg.session))

	case updatesClosedMsg:
		return s, nil

	case finishedMsg:
		if msg.err != nil {
			s.notice = msg.err.Error()
			return s, nil
		}
		snap := s.session.Snapshot()
		snap.Outcome = msg.outcome
		return s, s.applySnapshot(snap)

	case replyMsg:
		s.thinking = false
		s.history = append(s.history, tutor.Turn{Text: msg.text})
		return s, nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.chatOpen {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

// applySnapshot records snap and, once the rewards are in, refreshes the
// header totals.
func (s *FocusScreen) applySnapshot(snap focus.Snapshot) tea.Cmd {
	hadOutcome := s.snap.Outcome != nil
	s.snap = snap
	if snap.Outcome == nil || hadOutcome {
		return nil
	}
	if snap.Outcome.Err != nil {
		s.notice = "Some progress could not be saved: " + snap.Outcome.Err.Error()
	}
	if u := snap.Outcome.User; u != nil {
		stats := layout.Stats{XP: u.XP, Streak: u.Streak}
		return func() tea.Msg { return screen.StatsMsg{Stats: stats} }
	}
	return nil
}

func openError(err error) string {
	switch {
	case errors.Is(err, study.ErrLessonLocked):
		return "This level is still locked."
	case errors.Is(err, study.ErrNotFound):
		return "This level no longer exists."
	}
	return err.Error()
}

func (s *FocusScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" || s.session == nil {
		if s.errMsg != "" || key == "esc" {
			return s, backToMap()
		}
		return s, nil
	}

	if s.chatOpen {
		return s.handleChatKey(msg)
	}

	if s.snap.State == focus.StateFinished {
		switch key {
		case "enter", "esc", "space":
			return s, backToMap()
		}
		return s, nil
	}

	switch key {
	case "space":
		s.notice = ""
		var err error
		switch s.snap.State {
		case focus.StateReady:
			err = s.session.Start()
		case focus.StateRunning:
			err = s.session.Pause()
		case focus.StatePaused:
			err = s.session.Resume()
		}
		if err != nil {
			s.notice = err.Error()
		}
		s.snap = s.session.Snapshot()
		return s, nil

	case "f":
		sess := s.session
		return s, func() tea.Msg {
			out, err := sess.Finish()
			return finishedMsg{outcome: out, err: err}
		}

	case "esc":
		if !s.snap.State.Terminal() {
			_ = s.session.Abort()
		}
		return s, backToMap()

	case "tab":
		if s.tutor != nil {
			s.chatOpen = true
			return s, s.input.Init()
		}
	}
	return s, nil
}

func (s *FocusScreen) handleChatKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "tab", "esc":
		s.chatOpen = false
		return s, nil
	case "enter":
		text := s.input.Value()
		if text == "" || s.thinking {
			return s, nil
		}
		// The greeting is local and never sent.
		history := append([]tutor.Turn(nil), s.history[1:]...)
		s.history = append(s.history, tutor.Turn{FromUser: true, Text: text})
		s.input.SetValue("")
		s.thinking = true
		t, lesson := s.tutor, s.lesson.Title
		return s, func() tea.Msg {
			reply, err := t.Reply(context.Background(), history, lesson, text)
			return replyMsg{text: reply, err: err}
		}
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// backToMap pops the screen; the router then has the map reload.
func backToMap() tea.Cmd {
	return func() tea.Msg { return router.PopScreenMsg{} }
}
