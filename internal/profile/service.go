// AngelaMos | 2026
// service.go

package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/payping-app/backend/internal/auth"
	"github.com/payping-app/backend/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.ProfileInfo, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toProfileInfo(p), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.ProfileInfo, error) {
	p, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	return toProfileInfo(p), nil
}

// Create registers a new profile. Accounts start unactivated with no
// plan; only an activation approval or an admin toggle changes that.
func (s *Service) Create(
	ctx context.Context,
	email, passwordHash string,
) (*auth.ProfileInfo, error) {
	p := &Profile{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		Role:         RoleUser,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	return toProfileInfo(p), nil
}

func (s *Service) IncrementTokenVersion(
	ctx context.Context,
	profileID string,
) (int, error) {
	return s.repo.IncrementTokenVersion(ctx, profileID)
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	profileID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, profileID, passwordHash)
}

func (s *Service) GetMe(ctx context.Context, profileID string) (*Profile, error) {
	if profileID == "" {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	return s.repo.GetByID(ctx, profileID)
}

func (s *Service) GetProfile(ctx context.Context, id string) (*Profile, error) {
	return s.repo.GetByID(ctx, id)
}

// SetActive is the admin's direct entitlement toggle. On an
// inactive-to-active transition the store re-stamps activated_at.
func (s *Service) SetActive(
	ctx context.Context,
	actor core.Actor,
	id string,
	active bool,
) (*Profile, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("set active: %w", core.ErrForbidden)
	}

	return s.repo.SetActive(ctx, id, active)
}

// SetPlan assigns a plan independently of activation state; an inactive
// profile may carry a plan from a past or pending cycle.
func (s *Service) SetPlan(
	ctx context.Context,
	actor core.Actor,
	id, plan string,
) (*Profile, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("set plan: %w", core.ErrForbidden)
	}

	if !ValidPlan(plan) {
		return nil, fmt.Errorf(
			"set plan: invalid plan %q: %w",
			plan,
			core.ErrInvalidInput,
		)
	}

	return s.repo.SetPlan(ctx, id, plan)
}

func (s *Service) ListProfiles(
	ctx context.Context,
	actor core.Actor,
	params ListProfilesParams,
) ([]Profile, int, error) {
	if !actor.IsAdmin() {
		return nil, 0, fmt.Errorf("list profiles: %w", core.ErrForbidden)
	}

	return s.repo.List(ctx, params)
}

func (s *Service) ProfileCounts(
	ctx context.Context,
) (total, active int, err error) {
	return s.repo.Counts(ctx)
}

func toProfileInfo(p *Profile) *auth.ProfileInfo {
	return &auth.ProfileInfo{
		ID:           p.ID,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		Role:         p.Role,
		IsActive:     p.IsActive,
		Plan:         p.PlanID(),
		TokenVersion: p.TokenVersion,
	}
}

var _ auth.ProfileProvider = (*Service)(nil)
