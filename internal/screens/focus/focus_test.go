package focus

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyquest/internal/focus"
	"github.com/abhisek/studyquest/internal/lessons"
	"github.com/abhisek/studyquest/internal/rewards"
	"github.com/abhisek/studyquest/internal/router"
	"github.com/abhisek/studyquest/internal/screen"
	"github.com/abhisek/studyquest/internal/study"
	"github.com/abhisek/studyquest/internal/tutor"
)

// idleTicker fires only when a test sends on its channel.
type idleTicker struct{ c chan time.Time }

func (t idleTicker) C() <-chan time.Time { return t.c }
func (t idleTicker) Stop()               {}

type fakeTutor struct {
	history []tutor.Turn
	lesson  string
}

func (f *fakeTutor) Reply(_ context.Context, history []tutor.Turn, lesson, message string) (string, error) {
	f.history = history
	f.lesson = lesson
	return "Think of it as " + message, nil
}

type harness struct {
	mgr  *lessons.Manager
	ctrl *focus.Controller
	tick chan time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	user := &study.User{ID: "u1", DisplayName: "Ada", DailyGoalHours: 1, LastStudyDate: now.AddDate(0, 0, -1)}
	items := []study.Lesson{
		{ID: "a", Order: 0, Status: study.StatusOpen, Title: "Cells", Subject: "Biology"},
		{ID: "b", Order: 1, Status: study.StatusLocked, Title: "Genetics", Subject: "Biology"},
	}
	records := study.NewRecords(study.NewMemoryRepository(user, items))
	mgr := lessons.NewManager(records)
	h := &harness{mgr: mgr}
	h.ctrl = focus.NewController(focus.Options{
		Users:   records,
		Lessons: mgr,
		Rewards: rewards.NewAccumulator(records, study.ClockFunc(func() time.Time { return now }), nil),
		Config:  focus.DefaultConfig(),
		NewTicker: func(time.Duration) focus.Ticker {
			h.tick = make(chan time.Time)
			return idleTicker{c: h.tick}
		},
	})
	t.Cleanup(h.ctrl.Close)
	return h
}

func (h *harness) open(t *testing.T, lessonID string, tu Tutor) *FocusScreen {
	t.Helper()
	l, err := h.mgr.Lesson(context.Background(), lessonID)
	require.NoError(t, err)
	s := New(l, h.ctrl, tu)
	s.Update(s.Init()())
	return s
}

func press(s *FocusScreen, key string) tea.Cmd {
	var msg tea.KeyPressMsg
	switch key {
	case "space":
		msg = tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	case "enter":
		msg = tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		msg = tea.KeyPressMsg{Code: tea.KeyEscape}
	case "tab":
		msg = tea.KeyPressMsg{Code: tea.KeyTab}
	default:
		r := []rune(key)[0]
		msg = tea.KeyPressMsg{Code: r, Text: key}
	}
	_, cmd := s.Update(msg)
	return cmd
}

func TestOpenShowsReadyTimer(t *testing.T) {
	h := newHarness(t)
	s := h.open(t, "a", nil)

	require.NotNil(t, s.session)
	assert.Equal(t, focus.StateReady, s.snap.State)
	assert.Equal(t, 1200, s.snap.RemainingSeconds)
	assert.Contains(t, s.View(100, 30), "20:00")
}

func TestSpaceCyclesStartPauseResume(t *testing.T) {
	h := newHarness(t)
	s := h.open(t, "a", nil)

	press(s, "space")
	assert.Equal(t, focus.StateRunning, s.snap.State)
	h.tick <- time.Now()
	require.Eventually(t, func() bool { return s.session.Snapshot().RemainingSeconds == 1199 }, time.Second, time.Millisecond)
	press(s, "space")
	assert.Equal(t, focus.StatePaused, s.snap.State)
	assert.Contains(t, s.View(100, 30), "Paused")
	press(s, "space")
	assert.Equal(t, focus.StateRunning, s.snap.State)
}

func TestFinishAwardsAndCelebrates(t *testing.T) {
	h := newHarness(t)
	s := h.open(t, "a", nil)
	press(s, "space")

	cmd := press(s, "f")
	require.NotNil(t, cmd)
	_, cmd = s.Update(cmd())
	require.NotNil(t, cmd)
	stats, ok := cmd().(screen.StatsMsg)
	require.True(t, ok)
	assert.Equal(t, 50, stats.Stats.XP)
	assert.Equal(t, 1, stats.Stats.Streak)

	view := s.View(100, 30)
	assert.Contains(t, view, "LEVEL COMPLETE")
	assert.Contains(t, view, "+50 XP")

	ls, err := h.mgr.ListLessons(context.Background())
	require.NoError(t, err)
	assert.Equal(t, study.StatusDone, ls[0].Status)
	assert.Equal(t, study.StatusOpen, ls[1].Status)

	assert.NotNil(t, press(s, "enter"), "enter returns to the map")
}

func TestEscAbortsWithoutRewards(t *testing.T) {
	h := newHarness(t)
	s := h.open(t, "a", nil)
	press(s, "space")

	cmd := press(s, "esc")
	require.NotNil(t, cmd)
	assert.IsType(t, router.PopScreenMsg{}, cmd())
	assert.Equal(t, focus.StateAborted, s.session.Snapshot().State)

	ls, err := h.mgr.ListLessons(context.Background())
	require.NoError(t, err)
	assert.Equal(t, study.StatusOpen, ls[0].Status)
}

func TestCloseAbortsRunningSession(t *testing.T) {
	h := newHarness(t)
	s := h.open(t, "a", nil)
	press(s, "space")

	s.Close()
	assert.Equal(t, focus.StateAborted, s.session.Snapshot().State)
}

func TestLockedLessonShowsError(t *testing.T) {
	h := newHarness(t)
	s := h.open(t, "b", nil)

	assert.Nil(t, s.session)
	assert.Contains(t, s.View(100, 30), "still locked")
	assert.NotNil(t, press(s, "x"), "any key goes back")
}

func TestTutorChat(t *testing.T) {
	h := newHarness(t)
	tu := &fakeTutor{}
	s := h.open(t, "a", tu)

	press(s, "tab")
	require.True(t, s.chatOpen)

	// Keys go to the chat, not the timer.
	for _, r := range "mitosis" {
		press(s, string(r))
	}
	press(s, "space")
	assert.Equal(t, focus.StateReady, s.snap.State)

	cmd := press(s, "enter")
	require.NotNil(t, cmd)
	assert.True(t, s.thinking)
	s.Update(cmd())

	assert.False(t, s.thinking)
	assert.Equal(t, "Cells", tu.lesson)
	assert.Empty(t, tu.history, "greeting is not sent")
	require.Len(t, s.history, 3)
	assert.True(t, s.history[1].FromUser)
	assert.Contains(t, s.history[2].Text, "mitosis")

	press(s, "esc")
	assert.False(t, s.chatOpen)
	assert.Nil(t, s.session.Snapshot().Outcome)
}

func TestChatHiddenWithoutTutor(t *testing.T) {
	h := newHarness(t)
	s := h.open(t, "a", nil)
	press(s, "tab")
	assert.False(t, s.chatOpen)
}
