package rewards

// streakMilestones are the streak lengths celebrated on the map header.
var streakMilestones = []int{3, 7, 14, 30}

// NextStreakMilestone returns the next streak milestone above current.
func NextStreakMilestone(current int) int {
	for _, m := range streakMilestones {
		if m > current {
			return m
		}
	}
	// Beyond 30, every 30 days.
	return ((current / 30) + 1) * 30
}
