// Package profile creates and edits the single learner profile.
package profile

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/studyquest/internal/avatar"
	"github.com/abhisek/studyquest/internal/study"
)

// DefaultDisplayName is the name given to every new learner.
const DefaultDisplayName = "Traveler"

// SetupInput is what the learner tells setup about themselves.
type SetupInput struct {
	DisplayName     string
	DailyGoalHours  float64
	HardestSubject  string
	FavoriteSubject string
	// Avatar is merged over the default avatar.
	Avatar study.AvatarConfig
}

// Service reads and writes the profile record.
type Service struct {
	records *study.Records
	clock   study.Clock
}

// NewService creates a Service. A nil clock uses the wall clock.
func NewService(records *study.Records, clock study.Clock) *Service {
	if clock == nil {
		clock = study.SystemClock{}
	}
	return &Service{records: records, clock: clock}
}

// Get returns the profile, or nil when setup has not run.
func (s *Service) Get(ctx context.Context) (*study.User, error) {
	return s.records.User(ctx)
}

// Exists reports whether a profile has been created.
func (s *Service) Exists(ctx context.Context) (bool, error) {
	u, err := s.records.User(ctx)
	return u != nil, err
}

// Create stores a new profile. lastStudyDate starts at the creation time,
// so the streak only starts counting on the next calendar day. It fails
// with study.ErrProfileExists when a profile is already present.
func (s *Service) Create(ctx context.Context, in SetupInput) (*study.User, error) {
	now := s.clock.Now()
	name := strings.TrimSpace(in.DisplayName)
	if name == "" {
		name = DefaultDisplayName
	}
	hours := in.DailyGoalHours
	if hours <= 0 {
		hours = 1
	}
	u := &study.User{
		ID:              uuid.NewString(),
		DisplayName:     name,
		LastStudyDate:   now,
		DailyGoalHours:  hours,
		HardestSubject:  strings.TrimSpace(in.HardestSubject),
		FavoriteSubject: strings.TrimSpace(in.FavoriteSubject),
		Avatar:          avatar.Merge(avatar.Default(), in.Avatar),
		CreatedAt:       now,
	}
	if err := s.records.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateAvatar replaces the avatar. It fails with study.ErrNoProfile when
// no profile exists.
func (s *Service) UpdateAvatar(ctx context.Context, cfg study.AvatarConfig) (*study.User, error) {
	return s.records.UpdateUser(ctx, func(u *study.User) error {
		u.Avatar = cfg
		return nil
	})
}
