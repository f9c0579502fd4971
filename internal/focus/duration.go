package focus

import (
	"math"
	"time"

	"github.com/abhisek/studyquest/internal/rewards"
	"github.com/abhisek/studyquest/internal/study"
)

// Config controls session length and reward.
type Config struct {
	// FallbackMinutes is used when no profile exists.
	FallbackMinutes int
	MinMinutes      int
	MaxMinutes      int
	// SessionsPerDay splits the daily goal into sessions.
	SessionsPerDay int
	// RewardXP is credited once per finished session.
	RewardXP int
}

// DefaultConfig returns the standard session settings.
func DefaultConfig() Config {
	return Config{
		FallbackMinutes: 25,
		MinMinutes:      10,
		MaxMinutes:      60,
		SessionsPerDay:  3,
		RewardXP:        rewards.DefaultSessionXP,
	}
}

// SessionDuration derives the countdown length from the learner's daily
// goal: the goal split across SessionsPerDay, floored to whole minutes
// and clamped to [MinMinutes, MaxMinutes]. A nil user gets FallbackMinutes.
func SessionDuration(u *study.User, cfg Config) time.Duration {
	if u == nil {
		return time.Duration(cfg.FallbackMinutes) * time.Minute
	}
	perDay := cfg.SessionsPerDay
	if perDay <= 0 {
		perDay = 1
	}
	raw := math.Floor(u.DailyGoalHours * 60 / float64(perDay))
	if math.IsNaN(raw) {
		raw = float64(cfg.MinMinutes)
	}
	minutes := int(math.Max(float64(cfg.MinMinutes), math.Min(float64(cfg.MaxMinutes), raw)))
	return time.Duration(minutes) * time.Minute
}
