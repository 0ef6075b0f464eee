// AngelaMos | 2026
// service_test.go

package profile

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/payping-app/backend/internal/core"
)

type fakeRepo struct {
	profiles map[string]*Profile
	now      time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		profiles: map[string]*Profile{},
		now:      time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func (f *fakeRepo) Create(_ context.Context, p *Profile) error {
	for _, existing := range f.profiles {
		if existing.Email == p.Email {
			return fmt.Errorf("create profile: %w", core.ErrDuplicateKey)
		}
	}
	p.CreatedAt = f.now
	p.UpdatedAt = f.now
	cp := *p
	f.profiles[p.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, fmt.Errorf("get profile: %w", core.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) GetByEmail(
	_ context.Context,
	email string,
) (*Profile, error) {
	for _, p := range f.profiles {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get profile: %w", core.ErrNotFound)
}

// SetActive mirrors the production SQL: activated_at is re-stamped only
// on an inactive-to-active transition.
func (f *fakeRepo) SetActive(
	_ context.Context,
	id string,
	active bool,
) (*Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, fmt.Errorf("set profile active: %w", core.ErrNotFound)
	}
	if active && !p.IsActive {
		stamp := f.now
		p.ActivatedAt = &stamp
	}
	p.IsActive = active
	p.UpdatedAt = f.now
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) SetPlan(
	_ context.Context,
	id, plan string,
) (*Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, fmt.Errorf("set profile plan: %w", core.ErrNotFound)
	}
	p.Plan = &plan
	p.UpdatedAt = f.now
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) UpdatePassword(
	_ context.Context,
	id, passwordHash string,
) error {
	p, ok := f.profiles[id]
	if !ok {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}
	p.PasswordHash = passwordHash
	return nil
}

func (f *fakeRepo) IncrementTokenVersion(
	_ context.Context,
	id string,
) (int, error) {
	p, ok := f.profiles[id]
	if !ok {
		return 0, fmt.Errorf("increment token version: %w", core.ErrNotFound)
	}
	p.TokenVersion++
	return p.TokenVersion, nil
}

func (f *fakeRepo) List(
	_ context.Context,
	params ListProfilesParams,
) ([]Profile, int, error) {
	out := []Profile{}
	for _, p := range f.profiles {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Counts(_ context.Context) (int, int, error) {
	total, active := 0, 0
	for _, p := range f.profiles {
		total++
		if p.IsActive {
			active++
		}
	}
	return total, active, nil
}

var (
	adminActor = core.Actor{ID: "admin-1", Role: RoleAdmin}
	userActor  = core.Actor{ID: "user-1", Role: RoleUser}
)

func seedProfile(t *testing.T, svc *Service, email string) string {
	t.Helper()
	info, err := svc.Create(context.Background(), email, "hash")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	return info.ID
}

func TestCreateStartsInactive(t *testing.T) {
	t.Parallel()
	svc := NewService(newFakeRepo())

	info, err := svc.Create(context.Background(), "New@Example.COM", "hash")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if info.IsActive {
		t.Fatal("new profile must start inactive")
	}
	if info.Plan != "" {
		t.Fatalf("new profile plan = %q, want none", info.Plan)
	}
	if info.Email != "new@example.com" {
		t.Fatalf("email = %q, want lowercased", info.Email)
	}
	if info.Role != RoleUser {
		t.Fatalf("role = %q, want %q", info.Role, RoleUser)
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	t.Parallel()
	svc := NewService(newFakeRepo())

	seedProfile(t, svc, "dup@example.com")
	_, err := svc.Create(context.Background(), "dup@example.com", "hash2")
	if !errors.Is(err, core.ErrDuplicateKey) {
		t.Fatalf("Create(duplicate) err = %v, want duplicate key", err)
	}
}

func TestSetActiveRequiresAdmin(t *testing.T) {
	t.Parallel()
	svc := NewService(newFakeRepo())

	id := seedProfile(t, svc, "a@example.com")

	_, err := svc.SetActive(context.Background(), userActor, id, true)
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("SetActive() as user err = %v, want forbidden", err)
	}
}

func TestSetActiveRestampsOnReactivation(t *testing.T) {
	t.Parallel()
	repo := newFakeRepo()
	svc := NewService(repo)

	id := seedProfile(t, svc, "a@example.com")

	first, err := svc.SetActive(context.Background(), adminActor, id, true)
	if err != nil {
		t.Fatalf("SetActive(true) error: %v", err)
	}
	if first.ActivatedAt == nil {
		t.Fatal("activated_at not stamped on activation")
	}
	firstStamp := *first.ActivatedAt

	deactivated, err := svc.SetActive(context.Background(), adminActor, id, false)
	if err != nil {
		t.Fatalf("SetActive(false) error: %v", err)
	}
	if deactivated.ActivatedAt == nil || !deactivated.ActivatedAt.Equal(firstStamp) {
		t.Fatal("deactivation must leave activated_at untouched")
	}

	repo.now = repo.now.Add(48 * time.Hour)

	reactivated, err := svc.SetActive(context.Background(), adminActor, id, true)
	if err != nil {
		t.Fatalf("SetActive(true) again error: %v", err)
	}
	if !reactivated.ActivatedAt.After(firstStamp) {
		t.Fatal("reactivation must re-stamp activated_at")
	}
}

func TestSetPlanValidation(t *testing.T) {
	t.Parallel()
	svc := NewService(newFakeRepo())

	id := seedProfile(t, svc, "a@example.com")

	if _, err := svc.SetPlan(
		context.Background(), adminActor, id, "XX",
	); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("SetPlan(XX) err = %v, want invalid input", err)
	}

	p, err := svc.SetPlan(context.Background(), adminActor, id, PlanUS)
	if err != nil {
		t.Fatalf("SetPlan(US) error: %v", err)
	}
	if p.PlanID() != PlanUS {
		t.Fatalf("plan = %q, want %q", p.PlanID(), PlanUS)
	}
}

func TestSetPlanRequiresAdmin(t *testing.T) {
	t.Parallel()
	svc := NewService(newFakeRepo())

	id := seedProfile(t, svc, "a@example.com")

	_, err := svc.SetPlan(context.Background(), userActor, id, PlanEA)
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("SetPlan() as user err = %v, want forbidden", err)
	}
}

func TestListProfilesRequiresAdmin(t *testing.T) {
	t.Parallel()
	svc := NewService(newFakeRepo())

	_, _, err := svc.ListProfiles(
		context.Background(), userActor, ListProfilesParams{},
	)
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("ListProfiles() as user err = %v, want forbidden", err)
	}
}

func TestGetMeRequiresIdentity(t *testing.T) {
	t.Parallel()
	svc := NewService(newFakeRepo())

	_, err := svc.GetMe(context.Background(), "")
	if !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("GetMe(\"\") err = %v, want unauthorized", err)
	}
}
