// Package setup performs first-run onboarding: it creates the profile and
// the lesson collection generated from the learner's syllabus.
package setup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abhisek/studyquest/internal/avatar"
	"github.com/abhisek/studyquest/internal/lessons"
	"github.com/abhisek/studyquest/internal/llm"
	"github.com/abhisek/studyquest/internal/logging"
	"github.com/abhisek/studyquest/internal/profile"
	"github.com/abhisek/studyquest/internal/study"
	"github.com/abhisek/studyquest/internal/syllabus"
)

// Input is everything collected by the onboarding form.
type Input struct {
	Syllabus        string
	Days            int
	DailyGoalHours  float64
	HardestSubject  string
	FavoriteSubject string
	// AvatarDescription, when set, is turned into an avatar by the LLM.
	AvatarDescription string
}

// Validate reports the first problem with the input.
func (in Input) Validate() error {
	if strings.TrimSpace(in.Syllabus) == "" {
		return errors.New("syllabus is required")
	}
	if in.Days < 1 {
		return fmt.Errorf("days until exam must be at least 1, got %d", in.Days)
	}
	if in.DailyGoalHours <= 0 {
		return fmt.Errorf("daily hours must be positive, got %g", in.DailyGoalHours)
	}
	return nil
}

// Result describes what setup produced.
type Result struct {
	User    *study.User
	Lessons []study.Lesson
	// Fallback is set when the fixed lesson plan replaced generated content.
	Fallback bool
	// Cause explains the fallback or an avatar generation problem.
	Cause error
}

// Service runs onboarding.
type Service struct {
	profiles *profile.Service
	lessons  *lessons.Manager
	gen      lessons.Generator
	avatars  *avatar.Generator
	logger   *slog.Logger
}

// NewService creates a Service. gen and avatars may be nil, in which case
// the fixed fallbacks are used.
func NewService(profiles *profile.Service, mgr *lessons.Manager, gen lessons.Generator, avatars *avatar.Generator, logger *slog.Logger) *Service {
	return &Service{profiles: profiles, lessons: mgr, gen: gen, avatars: avatars, logger: logging.Or(logger)}
}

// Run validates in, creates the profile and installs a generated lesson
// collection. Generation problems never fail setup; they are reported
// through Result. Lessons and the avatar are generated before anything is
// written. A profile left without lessons by an interrupted run is kept and
// only the collection is installed; a profile that already has lessons
// fails with study.ErrProfileExists before anything is generated.
func (s *Service) Run(ctx context.Context, in Input) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.profiles.Get(ctx)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		have, err := s.lessons.ListLessons(ctx)
		if err != nil {
			return nil, err
		}
		if len(have) > 0 {
			return nil, study.ErrProfileExists
		}
	}

	text := syllabus.Normalize(in.Syllabus)
	res := &Result{}

	var look study.AvatarConfig
	if existing == nil && strings.TrimSpace(in.AvatarDescription) != "" && s.avatars != nil {
		look, err = s.avatars.Generate(ctx, in.AvatarDescription)
		if err != nil {
			res.Cause = err
		}
	}

	gen := lessons.Generate(ctx, s.gen, lessons.SyllabusInput{
		Text:         text,
		Days:         in.Days,
		HardestTopic: in.HardestSubject,
	})
	if gen.Fallback {
		if llm.Offline(gen.Cause) {
			s.logger.Info("no model available, using fallback plan", "err", gen.Cause)
		} else {
			s.logger.Warn("lesson generation failed, using fallback plan", "err", gen.Cause)
		}
		res.Fallback = true
		res.Cause = errors.Join(res.Cause, gen.Cause)
	}
	collection := lessons.NewCollection(gen.Drafts, lessons.GeneratedSubject, nil)
	if err := study.CheckCollection(collection); err != nil {
		return nil, fmt.Errorf("generated lessons: %w", err)
	}

	u := existing
	if u == nil {
		u, err = s.profiles.Create(ctx, profile.SetupInput{
			DailyGoalHours:  in.DailyGoalHours,
			HardestSubject:  in.HardestSubject,
			FavoriteSubject: in.FavoriteSubject,
			Avatar:          look,
		})
		if err != nil {
			return nil, fmt.Errorf("create profile: %w", err)
		}
	} else {
		s.logger.Info("resuming setup for profile without lessons", "user", u.ID)
	}
	res.User = u

	if err := s.lessons.Install(ctx, collection); err != nil {
		return nil, fmt.Errorf("install lessons: %w", err)
	}
	res.Lessons = collection

	s.logger.Info("setup complete", "user", u.ID, "lessons", len(collection), "fallback", res.Fallback)
	return res, nil
}
