// Package focus runs the countdown of a focus session on one lesson and
// applies the completion rewards when it finishes.
package focus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/abhisek/studyquest/internal/study"
)

// ErrInvalidTransition is returned when an action does not apply to the
// session's current state.
var ErrInvalidTransition = errors.New("invalid focus session transition")

// State is the lifecycle phase of a session. READY always has the full
// duration remaining and PAUSED strictly less.
type State int

const (
	StateReady State = iota
	StateRunning
	StatePaused
	StateFinished
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateFinished:
		return "finished"
	case StateAborted:
		return "aborted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateFinished || s == StateAborted
}

// LessonCompleter marks a lesson done.
type LessonCompleter interface {
	CompleteLesson(ctx context.Context, id string) ([]study.Lesson, error)
}

// XPAwarder credits experience points to the learner.
type XPAwarder interface {
	AddXP(ctx context.Context, amount int) (*study.User, error)
}

// Outcome is the result of the completion effects of a finished session.
type Outcome struct {
	// User is the profile after the reward, nil when it could not be applied.
	User *study.User
	// Lessons is the collection after completion, nil when it failed.
	Lessons []study.Lesson
	XP      int
	Err     error
}

// Snapshot is a point-in-time view of a session.
type Snapshot struct {
	ID               string
	LessonID         string
	State            State
	InitialSeconds   int
	RemainingSeconds int
	// Outcome is set once the completion effects have run.
	Outcome *Outcome
}

// Active reports whether the countdown is running.
func (s Snapshot) Active() bool {
	return s.State == StateRunning
}

// Remaining returns the time left as a duration.
func (s Snapshot) Remaining() time.Duration {
	return time.Duration(s.RemainingSeconds) * time.Second
}

// Progress is the elapsed fraction in [0, 1].
func (s Snapshot) Progress() float64 {
	if s.InitialSeconds <= 0 {
		return 1
	}
	return float64(s.InitialSeconds-s.RemainingSeconds) / float64(s.InitialSeconds)
}

const updatesBuffer = 8

// timerHandle is the stop/done pair of one countdown goroutine.
type timerHandle struct {
	stop chan struct{}
	done chan struct{}
}

// release stops the goroutine and waits for it to exit. It must not be
// called with the session lock held.
func (h *timerHandle) release() {
	if h == nil {
		return
	}
	close(h.stop)
	<-h.done
}

// Session is one focus countdown on a lesson. All methods are safe for
// concurrent use. At most one countdown goroutine is alive at a time and
// the completion effects run at most once.
type Session struct {
	id        string
	lessonID  string
	initial   int
	reward    int
	ctx       context.Context
	lessons   LessonCompleter
	xp        XPAwarder
	newTicker TickerFunc
	logger    *slog.Logger

	mu        sync.Mutex
	state     State
	remaining int
	gen       uint64
	timer     *timerHandle
	outcome   *Outcome
	closed    bool
	updates   chan Snapshot
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// LessonID returns the lesson the session is bound to.
func (s *Session) LessonID() string { return s.lessonID }

// Updates delivers a snapshot after every state change and tick. Slow
// readers lose the oldest snapshots. The channel is closed by Close.
func (s *Session) Updates() <-chan Snapshot { return s.updates }

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Start begins the countdown from READY.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != StateReady {
		return s.invalid("start")
	}
	s.state = StateRunning
	s.startTimerLocked()
	s.publishLocked()
	return nil
}

// Pause suspends a running countdown and releases its timer. Pausing
// before the first tick returns the session to READY.
func (s *Session) Pause() error {
	s.mu.Lock()
	if s.closed || s.state != StateRunning {
		defer s.mu.Unlock()
		return s.invalid("pause")
	}
	s.state = StatePaused
	if s.remaining == s.initial {
		s.state = StateReady
	}
	h := s.takeTimerLocked()
	s.publishLocked()
	s.mu.Unlock()

	h.release()
	return nil
}

// Resume continues a paused countdown with a fresh timer.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != StatePaused {
		return s.invalid("resume")
	}
	s.state = StateRunning
	s.startTimerLocked()
	s.publishLocked()
	return nil
}

// Finish ends the session early and applies the completion effects.
func (s *Session) Finish() (*Outcome, error) {
	s.mu.Lock()
	if s.closed || s.state.Terminal() {
		defer s.mu.Unlock()
		return nil, s.invalid("finish")
	}
	s.state = StateFinished
	h := s.takeTimerLocked()
	s.mu.Unlock()

	h.release()
	return s.complete(), nil
}

// Abort ends the session without any effects.
func (s *Session) Abort() error {
	s.mu.Lock()
	if s.closed || s.state.Terminal() {
		defer s.mu.Unlock()
		return s.invalid("abort")
	}
	s.state = StateAborted
	h := s.takeTimerLocked()
	s.publishLocked()
	s.mu.Unlock()

	h.release()
	s.logger.Debug("focus session aborted", "session", s.id, "lesson", s.lessonID)
	return nil
}

// Close tears the session down. A session that has not finished is
// aborted. Close is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if !s.state.Terminal() {
		s.state = StateAborted
	}
	h := s.takeTimerLocked()
	s.closed = true
	close(s.updates)
	s.mu.Unlock()

	h.release()
}

func (s *Session) invalid(action string) error {
	return fmt.Errorf("%s from %s: %w", action, s.state, ErrInvalidTransition)
}

func (s *Session) startTimerLocked() {
	s.gen++
	h := &timerHandle{stop: make(chan struct{}), done: make(chan struct{})}
	s.timer = h
	go s.run(s.newTicker(time.Second), h, s.gen)
}

// takeTimerLocked detaches the live timer. Bumping gen makes any tick
// already in flight on the old handle a no-op.
func (s *Session) takeTimerLocked() *timerHandle {
	s.gen++
	h := s.timer
	s.timer = nil
	return h
}

func (s *Session) run(t Ticker, h *timerHandle, gen uint64) {
	defer close(h.done)
	defer t.Stop()
	for {
		select {
		case <-h.stop:
			return
		case <-t.C():
			if s.tick(gen) {
				return
			}
		}
	}
}

// tick decrements the countdown. It reports true when this tick finished
// the session; the completion effects have run by then.
func (s *Session) tick(gen uint64) bool {
	s.mu.Lock()
	if gen != s.gen || s.state != StateRunning {
		s.mu.Unlock()
		return false
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining > 0 {
		s.publishLocked()
		s.mu.Unlock()
		return false
	}

	s.state = StateFinished
	// The goroutine exits on its own; nobody waits on this handle.
	s.takeTimerLocked()
	s.mu.Unlock()

	s.complete()
	return true
}

// complete runs the effects of entering FINISHED. Callers guarantee it
// runs once per session by winning the transition under the lock.
func (s *Session) complete() *Outcome {
	out := &Outcome{XP: s.reward}

	lessons, err := s.lessons.CompleteLesson(s.ctx, s.lessonID)
	switch {
	case errors.Is(err, study.ErrNotFound):
		s.logger.Error("finished lesson no longer exists", "session", s.id, "lesson", s.lessonID, "err", err)
	case err != nil:
		out.Err = fmt.Errorf("complete lesson: %w", err)
	default:
		out.Lessons = lessons
	}

	u, err := s.xp.AddXP(s.ctx, s.reward)
	if err != nil {
		out.Err = errors.Join(out.Err, fmt.Errorf("award xp: %w", err))
	} else {
		out.User = u
	}

	switch {
	case out.Err != nil:
		s.logger.Error("focus session rewards failed", "session", s.id, "lesson", s.lessonID, "err", out.Err)
	case u == nil:
		s.logger.Warn("focus session finished without a profile", "session", s.id, "lesson", s.lessonID)
	default:
		s.logger.Info("focus session finished", "session", s.id, "lesson", s.lessonID, "xp", u.XP, "streak", u.Streak)
	}

	s.mu.Lock()
	s.outcome = out
	s.publishLocked()
	s.mu.Unlock()
	return out
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		ID:               s.id,
		LessonID:         s.lessonID,
		State:            s.state,
		InitialSeconds:   s.initial,
		RemainingSeconds: s.remaining,
		Outcome:          s.outcome,
	}
}

// publishLocked sends the current snapshot without blocking, dropping the
// oldest pending snapshot when the buffer is full.
func (s *Session) publishLocked() {
	if s.closed {
		return
	}
	snap := s.snapshotLocked()
	for {
		select {
		case s.updates <- snap:
			return
		default:
		}
		select {
		case <-s.updates:
		default:
		}
	}
}
