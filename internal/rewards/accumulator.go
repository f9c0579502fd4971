// Package rewards tracks the learner's XP and daily study streak.
package rewards

import (
	"context"
	"log/slog"

	"github.com/abhisek/studyquest/internal/logging"
	"github.com/abhisek/studyquest/internal/study"
)

// DefaultSessionXP is the reward for finishing one focus session.
const DefaultSessionXP = 50

// Accumulator adds XP to the profile and advances the streak at most once
// per local calendar day.
type Accumulator struct {
	records *study.Records
	clock   study.Clock
	logger  *slog.Logger
}

// NewAccumulator creates an Accumulator. A nil clock uses the wall clock.
func NewAccumulator(records *study.Records, clock study.Clock, logger *slog.Logger) *Accumulator {
	if clock == nil {
		clock = study.SystemClock{}
	}
	return &Accumulator{records: records, clock: clock, logger: logging.Or(logger)}
}

// AddXP credits amount to the profile and stamps LastSessionAt. The first
// call on a new calendar day also increments the streak and moves
// lastStudyDate to now. Missed
// days do not reset the streak. It fails with study.ErrNoProfile, writing
// nothing, when setup has not run.
func (a *Accumulator) AddXP(ctx context.Context, amount int) (*study.User, error) {
	now := a.clock.Now()
	u, err := a.records.UpdateUser(ctx, func(u *study.User) error {
		if !study.SameDay(now, u.LastStudyDate) {
			u.Streak++
			u.LastStudyDate = now
		}
		u.XP += amount
		u.LastSessionAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	a.logger.Debug("xp awarded", "amount", amount, "xp", u.XP, "streak", u.Streak)
	return u, nil
}
