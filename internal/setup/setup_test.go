package setup

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyquest/internal/avatar"
	"github.com/abhisek/studyquest/internal/lessons"
	"github.com/abhisek/studyquest/internal/llm"
	"github.com/abhisek/studyquest/internal/profile"
	"github.com/abhisek/studyquest/internal/study"
)

func newService(repo study.Repository, provider llm.Provider) *Service {
	records := study.NewRecords(repo)
	var gen lessons.Generator
	var avatars *avatar.Generator
	if provider != nil {
		gen = lessons.NewLLMGenerator(provider, lessons.DefaultConfig())
		avatars = avatar.NewGenerator(provider, nil)
	}
	return NewService(profile.NewService(records, nil), lessons.NewManager(records), gen, avatars, nil)
}

func validInput() Input {
	return Input{
		Syllabus:       "1. Introduction to Anatomy\n2. The Nervous System",
		Days:           30,
		DailyGoalHours: 2,
		HardestSubject: "Nervous System",
	}
}

func TestInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Input)
		wantErr bool
	}{
		{"valid", func(*Input) {}, false},
		{"blank syllabus", func(in *Input) { in.Syllabus = "  " }, true},
		{"zero days", func(in *Input) { in.Days = 0 }, true},
		{"zero hours", func(in *Input) { in.DailyGoalHours = 0 }, true},
		{"fractional hours", func(in *Input) { in.DailyGoalHours = 0.1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			err := in.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRun_Generated(t *testing.T) {
	ctx := context.Background()
	repo := study.NewMemoryRepository(nil, nil)
	mock := llm.NewMockProvider(
		llm.MockJSON(`{"top":"bun"}`),
		llm.MockJSON(`{"lessons":[{"title":"Bone Zone","description":"Skeleton basics"},{"title":"Neuron Nexus","description":"Signals"}]}`),
	)
	in := validInput()
	in.AvatarDescription = "hair in a bun"

	res, err := newService(repo, mock).Run(ctx, in)
	require.NoError(t, err)
	assert.False(t, res.Fallback)
	assert.NoError(t, res.Cause)
	assert.Equal(t, 2.0, res.User.DailyGoalHours)
	assert.Equal(t, "bun", res.User.Avatar.Top)
	assert.Equal(t, "hoodie", res.User.Avatar.Clothing)

	require.Len(t, res.Lessons, 2)
	assert.Equal(t, "Bone Zone", res.Lessons[0].Title)
	assert.Equal(t, study.StatusOpen, res.Lessons[0].Status)
	assert.Equal(t, lessons.GeneratedSubject, res.Lessons[1].Subject)

	stored, err := repo.LoadLessons(ctx)
	require.NoError(t, err)
	assert.Equal(t, res.Lessons, stored)
}

func TestRun_FallbackWithoutProvider(t *testing.T) {
	repo := study.NewMemoryRepository(nil, nil)

	res, err := newService(repo, nil).Run(context.Background(), validInput())
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Error(t, res.Cause)
	require.Len(t, res.Lessons, 6)
	assert.Equal(t, "Final Boss", res.Lessons[5].Title)
	require.NoError(t, study.CheckCollection(res.Lessons))
	assert.Equal(t, avatar.Default(), res.User.Avatar)
}

func TestRun_RejectsExistingProfile(t *testing.T) {
	existing := []study.Lesson{{ID: "l1", Title: "Already here", Status: study.StatusOpen}}
	repo := study.NewMemoryRepository(&study.User{ID: "u"}, existing)
	mock := llm.NewMockProvider()

	_, err := newService(repo, mock).Run(context.Background(), validInput())
	assert.ErrorIs(t, err, study.ErrProfileExists)
	assert.Zero(t, mock.CallCount(), "nothing is generated for an existing profile")

	stored, err := repo.LoadLessons(context.Background())
	require.NoError(t, err)
	assert.Equal(t, existing, stored)
}

// lessonSaveFailure fails SaveLessons until healed.
type lessonSaveFailure struct {
	*study.MemoryRepository
	broken bool
}

func (r *lessonSaveFailure) SaveLessons(ctx context.Context, lessons []study.Lesson) error {
	if r.broken {
		return errors.New("disk gone")
	}
	return r.MemoryRepository.SaveLessons(ctx, lessons)
}

func TestRun_ResumesAfterInterruptedInstall(t *testing.T) {
	ctx := context.Background()
	repo := &lessonSaveFailure{MemoryRepository: study.NewMemoryRepository(nil, nil), broken: true}

	_, err := newService(repo, nil).Run(ctx, validInput())
	require.Error(t, err)
	u, err := repo.LoadUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, u, "profile was written before the lessons failed")
	assert.False(t, repo.HasLessons())

	repo.broken = false
	res, err := newService(repo, nil).Run(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID, "the existing profile is reused")
	require.Len(t, res.Lessons, 6)

	stored, err := repo.LoadLessons(ctx)
	require.NoError(t, err)
	assert.Equal(t, res.Lessons, stored)
	require.NoError(t, study.CheckCollection(stored))
}

// peekingGenerator records whether a profile was stored when it ran.
type peekingGenerator struct {
	repo       *study.MemoryRepository
	sawProfile bool
}

func (g *peekingGenerator) GenerateLessons(ctx context.Context, _ lessons.SyllabusInput) ([]lessons.Draft, error) {
	u, err := g.repo.LoadUser(ctx)
	if err != nil {
		return nil, err
	}
	g.sawProfile = u != nil
	return []lessons.Draft{{Title: "Bone Zone"}, {Title: "Neuron Nexus"}}, nil
}

func TestRun_GeneratesBeforeWriting(t *testing.T) {
	repo := study.NewMemoryRepository(nil, nil)
	gen := &peekingGenerator{repo: repo}
	records := study.NewRecords(repo)
	svc := NewService(profile.NewService(records, nil), lessons.NewManager(records), gen, nil, nil)

	res, err := svc.Run(context.Background(), validInput())
	require.NoError(t, err)
	assert.False(t, gen.sawProfile, "lessons are generated before the profile is written")
	assert.Equal(t, "Bone Zone", res.Lessons[0].Title)

	userSaves, lessonSaves := repo.Saves()
	assert.Equal(t, 1, userSaves)
	assert.Equal(t, 1, lessonSaves)
}

func TestRun_InvalidInput(t *testing.T) {
	repo := study.NewMemoryRepository(nil, nil)
	_, err := newService(repo, nil).Run(context.Background(), Input{Days: 3, DailyGoalHours: 1})
	assert.Error(t, err)

	u, err := repo.LoadUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, u)
}
