package focus

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/studyquest/internal/logging"
	"github.com/abhisek/studyquest/internal/study"
)

// UserSource reads the learner profile; nil means setup has not run.
type UserSource interface {
	User(ctx context.Context) (*study.User, error)
}

// LessonGate checks and completes lessons.
type LessonGate interface {
	LessonCompleter
	CanStudy(ctx context.Context, id string) (study.Lesson, error)
}

// Options configures a Controller.
type Options struct {
	Users   UserSource
	Lessons LessonGate
	Rewards XPAwarder
	Config  Config
	// NewTicker defaults to SystemTicker.
	NewTicker TickerFunc
	Logger    *slog.Logger
}

// Controller opens focus sessions. It keeps at most one session alive:
// opening a session closes the previous one.
type Controller struct {
	opts Options

	mu      sync.Mutex
	current *Session
}

// NewController creates a Controller.
func NewController(opts Options) *Controller {
	if opts.NewTicker == nil {
		opts.NewTicker = SystemTicker
	}
	opts.Logger = logging.Or(opts.Logger)
	return &Controller{opts: opts}
}

// Open prepares a READY session on lessonID with the duration derived
// from the learner's daily goal.
func (c *Controller) Open(ctx context.Context, lessonID string) (*Session, error) {
	return c.OpenFor(ctx, lessonID, 0)
}

// OpenFor is Open with an explicit duration. A non-positive d uses the
// derived duration. Unknown lessons fail with a *study.NotFoundError and
// locked ones with study.ErrLessonLocked.
func (c *Controller) OpenFor(ctx context.Context, lessonID string, d time.Duration) (*Session, error) {
	lesson, err := c.opts.Lessons.CanStudy(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if d <= 0 {
		u, err := c.opts.Users.User(ctx)
		if err != nil {
			return nil, err
		}
		d = SessionDuration(u, c.opts.Config)
	}
	seconds := int(d / time.Second)
	if seconds < 1 {
		seconds = 1
	}

	s := &Session{
		id:        uuid.NewString(),
		lessonID:  lesson.ID,
		initial:   seconds,
		remaining: seconds,
		reward:    c.opts.Config.RewardXP,
		ctx:       context.WithoutCancel(ctx),
		lessons:   c.opts.Lessons,
		xp:        c.opts.Rewards,
		newTicker: c.opts.NewTicker,
		logger:    c.opts.Logger,
		updates:   make(chan Snapshot, updatesBuffer),
	}

	c.mu.Lock()
	prev := c.current
	c.current = s
	c.mu.Unlock()
	if prev != nil {
		prev.Close()
	}

	c.opts.Logger.Debug("focus session opened", "session", s.id, "lesson", lesson.ID, "seconds", seconds)
	return s, nil
}

// Current returns the most recently opened session, or nil.
func (c *Controller) Current() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Close tears down the current session.
func (c *Controller) Close() {
	c.mu.Lock()
	s := c.current
	c.current = nil
	c.mu.Unlock()
	if s != nil {
		s.Close()
	}
}
