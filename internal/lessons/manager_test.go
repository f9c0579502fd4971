package lessons

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyquest/internal/study"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("l%d", n)
	}
}

func newTestManager(lessons []study.Lesson) (*Manager, *study.MemoryRepository) {
	repo := study.NewMemoryRepository(nil, lessons)
	return NewManager(study.NewRecords(repo)), repo
}

func statuses(lessons []study.Lesson) []study.LessonStatus {
	out := make([]study.LessonStatus, len(lessons))
	for i, l := range lessons {
		out[i] = l.Status
	}
	return out
}

func TestCompleteLesson_EmptyCollection(t *testing.T) {
	m, repo := newTestManager(nil)

	_, err := m.CompleteLesson(context.Background(), "l1")
	var nf *study.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "l1", nf.ID)

	_, lessonSaves := repo.Saves()
	assert.Zero(t, lessonSaves)
	assert.False(t, repo.HasLessons())
}

func TestCompleteLesson_OpensNext(t *testing.T) {
	m, _ := newTestManager([]study.Lesson{
		{ID: "l1", Order: 0, Status: study.StatusOpen},
		{ID: "l2", Order: 1, Status: study.StatusLocked},
	})

	got, err := m.CompleteLesson(context.Background(), "l1")
	require.NoError(t, err)
	assert.Equal(t, []study.LessonStatus{study.StatusDone, study.StatusOpen}, statuses(got))

	stored, err := m.ListLessons(context.Background())
	require.NoError(t, err)
	assert.Equal(t, got, stored)
}

func TestCompleteLesson_Idempotent(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(NewCollection(Fallback("Biology"), "", seqIDs()))

	first, err := m.CompleteLesson(ctx, "l1")
	require.NoError(t, err)
	second, err := m.CompleteLesson(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCompleteLesson_LastLesson(t *testing.T) {
	m, _ := newTestManager([]study.Lesson{
		{ID: "a", Order: 0, Status: study.StatusDone},
		{ID: "b", Order: 1, Status: study.StatusOpen},
	})

	got, err := m.CompleteLesson(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, []study.LessonStatus{study.StatusDone, study.StatusDone}, statuses(got))

	p := ProgressOf(got)
	assert.True(t, p.Complete())
	assert.Nil(t, p.Current)
}

func TestCompleteLesson_NeverRegresses(t *testing.T) {
	// A successor that is already DONE stays DONE.
	m, _ := newTestManager([]study.Lesson{
		{ID: "a", Order: 0, Status: study.StatusOpen},
		{ID: "b", Order: 1, Status: study.StatusDone},
	})

	got, err := m.CompleteLesson(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, []study.LessonStatus{study.StatusDone, study.StatusDone}, statuses(got))
}

func TestCompleteLesson_SortsStoredCollection(t *testing.T) {
	m, _ := newTestManager([]study.Lesson{
		{ID: "c", Order: 2, Status: study.StatusLocked},
		{ID: "a", Order: 0, Status: study.StatusOpen},
		{ID: "b", Order: 1, Status: study.StatusLocked},
	})

	got, err := m.CompleteLesson(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, []study.LessonStatus{study.StatusDone, study.StatusOpen, study.StatusLocked}, statuses(got))
}

func TestCompleteLesson_UnlockMonotonicity(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewPCG(7, 11))

	for round := 0; round < 50; round++ {
		n := 1 + rng.IntN(12)
		drafts := make([]Draft, n)
		for i := range drafts {
			drafts[i] = Draft{Title: fmt.Sprintf("Level %d", i+1)}
		}
		m, _ := newTestManager(NewCollection(drafts, GeneratedSubject, seqIDs()))
		prev, err := m.ListLessons(ctx)
		require.NoError(t, err)

		for step := 0; step < n+2; step++ {
			p := ProgressOf(prev)
			// Mostly complete the open lesson; sometimes repeat a done one.
			var id string
			switch {
			case p.Current != nil && rng.IntN(4) > 0:
				id = p.Current.ID
			case p.Done > 0:
				id = prev[rng.IntN(p.Done)].ID
			default:
				continue
			}

			next, err := m.CompleteLesson(ctx, id)
			require.NoError(t, err)
			require.NoError(t, study.CheckCollection(next), "round %d step %d", round, step)
			for i := range next {
				assert.False(t, next[i].Status.Before(prev[i].Status),
					"lesson %s regressed from %s to %s", next[i].ID, prev[i].Status, next[i].Status)
			}
			prev = next
		}
	}
}

func TestLessonAndCanStudy(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager([]study.Lesson{
		{ID: "a", Order: 0, Status: study.StatusDone, Title: "A"},
		{ID: "b", Order: 1, Status: study.StatusOpen, Title: "B"},
		{ID: "c", Order: 2, Status: study.StatusLocked, Title: "C"},
	})

	l, err := m.Lesson(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "B", l.Title)

	_, err = m.Lesson(ctx, "zzz")
	assert.ErrorIs(t, err, study.ErrNotFound)

	_, err = m.CanStudy(ctx, "a")
	assert.NoError(t, err, "done lessons can be replayed")
	_, err = m.CanStudy(ctx, "b")
	assert.NoError(t, err)
	_, err = m.CanStudy(ctx, "c")
	assert.ErrorIs(t, err, study.ErrLessonLocked)
}

func TestProgress(t *testing.T) {
	m, _ := newTestManager([]study.Lesson{
		{ID: "a", Order: 0, Status: study.StatusDone},
		{ID: "b", Order: 1, Status: study.StatusOpen},
		{ID: "c", Order: 2, Status: study.StatusLocked},
		{ID: "d", Order: 3, Status: study.StatusLocked},
	})

	p, err := m.Progress(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, p.Done)
	assert.Equal(t, 4, p.Total)
	require.NotNil(t, p.Current)
	assert.Equal(t, "b", p.Current.ID)
	assert.InDelta(t, 0.25, p.Percent(), 1e-9)
	assert.False(t, p.Complete())

	assert.Zero(t, ProgressOf(nil).Percent())
}

func TestInstall(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(nil)

	err := m.Install(ctx, []study.Lesson{
		{ID: "a", Order: 0, Status: study.StatusLocked},
		{ID: "b", Order: 1, Status: study.StatusOpen},
	})
	assert.Error(t, err)

	require.NoError(t, m.Install(ctx, NewCollection(Fallback("Chemistry"), "", seqIDs())))
	got, err := m.ListLessons(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 6)
}
