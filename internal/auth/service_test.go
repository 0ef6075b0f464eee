// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/payping-app/backend/internal/config"
	"github.com/payping-app/backend/internal/core"
)

type fakeTokenRepo struct {
	tokens map[string]*RefreshToken
	nextID int
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[string]*RefreshToken{}}
}

func (f *fakeTokenRepo) Store(
	_ context.Context,
	userID, tokenHash, familyID string,
	expiresAt time.Time,
	userAgent, ipAddress *string,
) (*RefreshToken, error) {
	f.nextID++
	token := &RefreshToken{
		ID:        fmt.Sprintf("tok-%d", f.nextID),
		UserID:    userID,
		TokenHash: tokenHash,
		FamilyID:  familyID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
		UserAgent: userAgent,
		IPAddress: ipAddress,
	}
	f.tokens[token.ID] = token
	cp := *token
	return &cp, nil
}

func (f *fakeTokenRepo) GetByHash(
	_ context.Context,
	tokenHash string,
) (*RefreshToken, error) {
	for _, t := range f.tokens {
		if t.TokenHash == tokenHash {
			cp := *t
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get refresh token: %w", core.ErrNotFound)
}

func (f *fakeTokenRepo) Revoke(
	_ context.Context,
	id string,
	replacedBy *string,
) error {
	t, ok := f.tokens[id]
	if !ok || t.RevokedAt != nil {
		return fmt.Errorf("revoke refresh token: %w", core.ErrNotFound)
	}
	now := time.Now()
	t.RevokedAt = &now
	t.ReplacedBy = replacedBy
	return nil
}

func (f *fakeTokenRepo) RevokeFamilyByID(
	_ context.Context,
	id, userID string,
) error {
	t, ok := f.tokens[id]
	if !ok || t.UserID != userID || t.RevokedAt != nil {
		return fmt.Errorf("revoke session: %w", core.ErrNotFound)
	}
	now := time.Now()
	for _, candidate := range f.tokens {
		if candidate.FamilyID == t.FamilyID && candidate.RevokedAt == nil {
			candidate.RevokedAt = &now
		}
	}
	return nil
}

func (f *fakeTokenRepo) RevokeFamily(
	_ context.Context,
	familyID string,
) error {
	now := time.Now()
	for _, t := range f.tokens {
		if t.FamilyID == familyID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (f *fakeTokenRepo) RevokeAllForUser(
	_ context.Context,
	userID string,
) error {
	now := time.Now()
	for _, t := range f.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (f *fakeTokenRepo) ListActiveForUser(
	_ context.Context,
	userID string,
) ([]RefreshToken, error) {
	out := []RefreshToken{}
	for _, t := range f.tokens {
		if t.UserID == userID && t.RevokedAt == nil &&
			t.ExpiresAt.After(time.Now()) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTokenRepo) DeleteExpired(
	_ context.Context,
	before time.Time,
) (int64, error) {
	var n int64
	for id, t := range f.tokens {
		if t.ExpiresAt.Before(before) {
			delete(f.tokens, id)
			n++
		}
	}
	return n, nil
}

type fakeProfiles struct {
	byID    map[string]*ProfileInfo
	byEmail map[string]*ProfileInfo
	nextID  int
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{
		byID:    map[string]*ProfileInfo{},
		byEmail: map[string]*ProfileInfo{},
	}
}

func (f *fakeProfiles) GetByEmail(
	_ context.Context,
	email string,
) (*ProfileInfo, error) {
	p, ok := f.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("get profile: %w", core.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) GetByID(
	_ context.Context,
	id string,
) (*ProfileInfo, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("get profile: %w", core.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) Create(
	_ context.Context,
	email, passwordHash string,
) (*ProfileInfo, error) {
	if _, exists := f.byEmail[email]; exists {
		return nil, fmt.Errorf("create profile: %w", core.ErrDuplicateKey)
	}
	f.nextID++
	p := &ProfileInfo{
		ID:           fmt.Sprintf("user-%d", f.nextID),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         "user",
	}
	f.byID[p.ID] = p
	f.byEmail[email] = p
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) IncrementTokenVersion(
	_ context.Context,
	userID string,
) (int, error) {
	p, ok := f.byID[userID]
	if !ok {
		return 0, fmt.Errorf("increment token version: %w", core.ErrNotFound)
	}
	p.TokenVersion++
	return p.TokenVersion, nil
}

func (f *fakeProfiles) UpdatePassword(
	_ context.Context,
	userID, passwordHash string,
) error {
	p, ok := f.byID[userID]
	if !ok {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}
	p.PasswordHash = passwordHash
	return nil
}

func newAuthTestService(t *testing.T) (*Service, *fakeTokenRepo, *fakeProfiles) {
	t.Helper()

	cfg := config.JWTConfig{
		AccessTokenExpire:  15 * time.Minute,
		RefreshTokenExpire: 168 * time.Hour,
		Issuer:             "payping",
		Audience:           "payping-api",
	}

	manager := newTestManager(t, cfg.AccessTokenExpire)
	repo := newFakeTokenRepo()
	profiles := newFakeProfiles()

	svc := NewService(
		repo, profiles, manager, nil, cfg, slog.New(slog.DiscardHandler),
	)
	return svc, repo, profiles
}

const testPassword = "correct-horse-battery"

func register(t *testing.T, svc *Service) *RegisterResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "owner@example.com",
		Password: testPassword,
	}, nil, nil)
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	return resp
}

func TestRegisterCreatesInactiveAccount(t *testing.T) {
	t.Parallel()
	svc, _, profiles := newAuthTestService(t)

	resp := register(t, svc)

	if resp.IsActive {
		t.Fatal("new account must be inactive until approved")
	}
	stored := profiles.byID[resp.ID]
	if stored.PasswordHash == testPassword {
		t.Fatal("password stored in plaintext")
	}

	if resp.Tokens == nil || resp.Tokens.AccessToken == "" {
		t.Fatal("register must sign the new account in")
	}
	claims, err := svc.jwt.VerifyAccessToken(
		context.Background(), resp.Tokens.AccessToken,
	)
	if err != nil {
		t.Fatalf("VerifyAccessToken() error: %v", err)
	}
	if claims.Active {
		t.Fatal("fresh registration must not be entitled yet")
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	t.Parallel()
	svc, _, _ := newAuthTestService(t)

	register(t, svc)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "Owner@Example.com",
		Password: testPassword,
	}, nil, nil)
	if !errors.Is(err, core.ErrDuplicateKey) {
		t.Fatalf("Register(duplicate) err = %v, want duplicate key", err)
	}
}

func TestLoginIssuesVerifiableTokenPair(t *testing.T) {
	t.Parallel()
	svc, _, _ := newAuthTestService(t)

	resp := register(t, svc)

	pair, err := svc.Login(context.Background(), LoginRequest{
		Email:    "owner@example.com",
		Password: testPassword,
	}, nil, nil)
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	claims, err := svc.jwt.VerifyAccessToken(
		context.Background(), pair.AccessToken,
	)
	if err != nil {
		t.Fatalf("VerifyAccessToken() error: %v", err)
	}
	if claims.UserID != resp.ID {
		t.Fatalf("subject = %q, want %q", claims.UserID, resp.ID)
	}
	if claims.Active {
		t.Fatal("unapproved account must carry active=false in its token")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()
	svc, _, _ := newAuthTestService(t)

	register(t, svc)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "owner@example.com",
		Password: "wrong",
	}, nil, nil)
	if !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("Login(wrong password) err = %v, want unauthorized", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: testPassword,
	}, nil, nil)
	if !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("Login(unknown email) err = %v, want unauthorized", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	t.Parallel()
	svc, _, _ := newAuthTestService(t)

	register(t, svc)
	pair, err := svc.Login(context.Background(), LoginRequest{
		Email:    "owner@example.com",
		Password: testPassword,
	}, nil, nil)
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	rotated, err := svc.Refresh(context.Background(), RefreshRequest{
		RefreshToken: pair.RefreshToken,
	}, nil, nil)
	if err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	if rotated.RefreshToken == pair.RefreshToken {
		t.Fatal("refresh must rotate the token")
	}

	// The old token is now revoked. Presenting it again is reuse and
	// must kill the whole family, including the fresh token.
	if _, err := svc.Refresh(context.Background(), RefreshRequest{
		RefreshToken: pair.RefreshToken,
	}, nil, nil); !errors.Is(err, core.ErrTokenRevoked) {
		t.Fatalf("Refresh(reused) err = %v, want token revoked", err)
	}

	if _, err := svc.Refresh(context.Background(), RefreshRequest{
		RefreshToken: rotated.RefreshToken,
	}, nil, nil); !errors.Is(err, core.ErrTokenRevoked) {
		t.Fatalf("Refresh(after family revocation) err = %v, want token revoked", err)
	}
}

func TestLogoutRevokesFamily(t *testing.T) {
	t.Parallel()
	svc, _, _ := newAuthTestService(t)

	register(t, svc)
	pair, err := svc.Login(context.Background(), LoginRequest{
		Email:    "owner@example.com",
		Password: testPassword,
	}, nil, nil)
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	if err := svc.Logout(context.Background(), LogoutRequest{
		RefreshToken: pair.RefreshToken,
	}); err != nil {
		t.Fatalf("Logout() error: %v", err)
	}

	if _, err := svc.Refresh(context.Background(), RefreshRequest{
		RefreshToken: pair.RefreshToken,
	}, nil, nil); !errors.Is(err, core.ErrTokenRevoked) {
		t.Fatalf("Refresh(after logout) err = %v, want token revoked", err)
	}

	// Logging out an already-gone token is quietly accepted.
	if err := svc.Logout(context.Background(), LogoutRequest{
		RefreshToken: "unknown-token",
	}); err != nil {
		t.Fatalf("Logout(unknown) error: %v", err)
	}
}

func TestChangePasswordInvalidatesSessions(t *testing.T) {
	t.Parallel()
	svc, repo, profiles := newAuthTestService(t)

	resp := register(t, svc)
	pair, err := svc.Login(context.Background(), LoginRequest{
		Email:    "owner@example.com",
		Password: testPassword,
	}, nil, nil)
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	err = svc.ChangePassword(context.Background(), resp.ID,
		ChangePasswordRequest{
			CurrentPassword: testPassword,
			NewPassword:     "even-more-correct-horse",
		})
	if err != nil {
		t.Fatalf("ChangePassword() error: %v", err)
	}

	if profiles.byID[resp.ID].TokenVersion != 1 {
		t.Fatalf("token version = %d, want 1",
			profiles.byID[resp.ID].TokenVersion)
	}

	active, err := repo.ListActiveForUser(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("ListActiveForUser() error: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("%d sessions survive a password change, want 0", len(active))
	}

	if _, err := svc.Refresh(context.Background(), RefreshRequest{
		RefreshToken: pair.RefreshToken,
	}, nil, nil); err == nil {
		t.Fatal("old refresh token survived password change")
	}

	if _, err := svc.Login(context.Background(), LoginRequest{
		Email:    "owner@example.com",
		Password: "even-more-correct-horse",
	}, nil, nil); err != nil {
		t.Fatalf("Login(new password) error: %v", err)
	}
}

func TestRevokeSessionIsOwnerScoped(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newAuthTestService(t)

	resp := register(t, svc)
	pair, err := svc.Login(context.Background(), LoginRequest{
		Email:    "owner@example.com",
		Password: testPassword,
	}, nil, nil)
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	sessions, err := svc.ListSessions(
		context.Background(), resp.ID, pair.RefreshToken,
	)
	if err != nil {
		t.Fatalf("ListSessions() error: %v", err)
	}
	if len(sessions) != 1 || !sessions[0].Current {
		t.Fatalf("sessions = %+v, want exactly the current one", sessions)
	}

	err = svc.RevokeSession(
		context.Background(), "someone-else", sessions[0].ID,
	)
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("RevokeSession(foreign user) err = %v, want not found", err)
	}

	if err := svc.RevokeSession(
		context.Background(), resp.ID, sessions[0].ID,
	); err != nil {
		t.Fatalf("RevokeSession() error: %v", err)
	}

	active, err := repo.ListActiveForUser(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("ListActiveForUser() error: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("%d sessions survive revocation, want 0", len(active))
	}
}

func TestChangePasswordRejectsWrongCurrent(t *testing.T) {
	t.Parallel()
	svc, _, _ := newAuthTestService(t)

	resp := register(t, svc)

	err := svc.ChangePassword(context.Background(), resp.ID,
		ChangePasswordRequest{
			CurrentPassword: "not-it",
			NewPassword:     "whatever-new-password",
		})
	if !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("ChangePassword(wrong current) err = %v, want unauthorized", err)
	}
}
