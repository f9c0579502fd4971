package rewards

import (
	"time"

	"github.com/abhisek/studyquest/internal/study"
)

// Quest is one daily goal shown next to the lesson map.
type Quest struct {
	Title    string
	Progress int
	Target   int
}

// Done reports whether the quest target has been reached.
func (q Quest) Done() bool {
	return q.Progress >= q.Target
}

// DailyQuests derives the daily quest board from the profile. A nil user
// yields the board with no progress.
func DailyQuests(u *study.User, now time.Time) []Quest {
	var xp, streak, sessions int
	if u != nil {
		xp, streak = u.XP, u.Streak
		if !u.LastSessionAt.IsZero() && study.SameDay(u.LastSessionAt, now) {
			sessions = 1
		}
	}
	return []Quest{
		{Title: "Earn 50 XP", Progress: min(50, xp), Target: 50},
		{Title: "Finish 1 Focus Session", Progress: sessions, Target: 1},
		{Title: "7 Day Streak", Progress: min(7, streak), Target: 7},
	}
}
