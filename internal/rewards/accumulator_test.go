package rewards

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyquest/internal/study"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func at(day, hour, minute int) time.Time {
	return time.Date(2025, time.March, day, hour, minute, 0, 0, time.Local)
}

func newAccumulator(u *study.User, clock study.Clock) (*Accumulator, *study.MemoryRepository) {
	repo := study.NewMemoryRepository(u, nil)
	return NewAccumulator(study.NewRecords(repo), clock, nil), repo
}

func TestAddXP_NoProfile(t *testing.T) {
	acc, repo := newAccumulator(nil, &fakeClock{now: at(1, 9, 0)})

	_, err := acc.AddXP(context.Background(), 50)
	assert.ErrorIs(t, err, study.ErrNoProfile)

	userSaves, _ := repo.Saves()
	assert.Zero(t, userSaves)
	u, err := repo.LoadUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, u, "no record is created")
}

func TestAddXP_NewDayAdvancesStreak(t *testing.T) {
	clock := &fakeClock{now: at(2, 8, 30)}
	acc, _ := newAccumulator(&study.User{ID: "u", XP: 100, Streak: 4, LastStudyDate: at(1, 21, 0)}, clock)

	u, err := acc.AddXP(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, 150, u.XP)
	assert.Equal(t, 5, u.Streak)
	assert.True(t, u.LastStudyDate.Equal(clock.now))
}

func TestAddXP_StreakOncePerDay(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: at(2, 9, 0)}
	acc, _ := newAccumulator(&study.User{ID: "u", LastStudyDate: at(1, 9, 0)}, clock)

	for i, hour := range []int{9, 12, 18, 23} {
		clock.now = at(2, hour, 0)
		u, err := acc.AddXP(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, u.Streak, "call %d", i)
		assert.Equal(t, 10*(i+1), u.XP)
		assert.True(t, u.LastStudyDate.Equal(at(2, 9, 0)), "lastStudyDate stays at the first study of the day")
	}
}

func TestAddXP_MidnightBoundary(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: at(1, 23, 59)}
	acc, _ := newAccumulator(&study.User{ID: "u", Streak: 2, LastStudyDate: at(1, 8, 0)}, clock)

	u, err := acc.AddXP(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, 2, u.Streak)

	// Two minutes later is a new calendar day.
	clock.now = at(2, 0, 1)
	u, err = acc.AddXP(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, 3, u.Streak)
	assert.Equal(t, 100, u.XP)
}

func TestAddXP_GapDoesNotResetStreak(t *testing.T) {
	acc, _ := newAccumulator(&study.User{ID: "u", Streak: 9, LastStudyDate: at(1, 10, 0)}, &fakeClock{now: at(20, 10, 0)})

	u, err := acc.AddXP(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, 10, u.Streak)
}

func TestAddXP_FirstSessionOnSetupDay(t *testing.T) {
	// Setup stamps lastStudyDate with the creation time, so studying later
	// the same day does not count towards the streak.
	created := at(5, 10, 0)
	acc, _ := newAccumulator(&study.User{ID: "u", LastStudyDate: created, CreatedAt: created}, &fakeClock{now: at(5, 11, 0)})

	u, err := acc.AddXP(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, 0, u.Streak)
	assert.Equal(t, 50, u.XP)
	assert.True(t, u.LastSessionAt.Equal(at(5, 11, 0)))
}

func TestAddXP_PersistsOtherFields(t *testing.T) {
	ctx := context.Background()
	orig := &study.User{
		ID:             "u",
		DisplayName:    "Ada",
		DailyGoalHours: 2.5,
		HardestSubject: "Calculus",
		Avatar:         study.AvatarConfig{Top: "longHair"},
	}
	acc, repo := newAccumulator(orig, &fakeClock{now: at(3, 9, 0)})

	_, err := acc.AddXP(ctx, 50)
	require.NoError(t, err)

	stored, err := repo.LoadUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ada", stored.DisplayName)
	assert.Equal(t, 2.5, stored.DailyGoalHours)
	assert.Equal(t, "longHair", stored.Avatar.Top)
	assert.Equal(t, 50, stored.XP)
}
