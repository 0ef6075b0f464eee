// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/payping-app/backend/internal/config"
	"github.com/payping-app/backend/internal/core"
	"github.com/payping-app/backend/internal/middleware"
)

// ProfileProvider is the profile package seen through auth's eyes.
// Registration and login need account rows without auth importing the
// profile package directly.
type ProfileProvider interface {
	GetByEmail(ctx context.Context, email string) (*ProfileInfo, error)
	GetByID(ctx context.Context, id string) (*ProfileInfo, error)
	Create(
		ctx context.Context,
		email, passwordHash string,
	) (*ProfileInfo, error)
	IncrementTokenVersion(ctx context.Context, userID string) (int, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type Service struct {
	repo     Repository
	profiles ProfileProvider
	jwt      *JWTManager
	redis    *core.Redis
	config   config.JWTConfig
	logger   *slog.Logger
}

func NewService(
	repo Repository,
	profiles ProfileProvider,
	jwtManager *JWTManager,
	redisClient *core.Redis,
	cfg config.JWTConfig,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:     repo,
		profiles: profiles,
		jwt:      jwtManager,
		redis:    redisClient,
		config:   cfg,
		logger:   logger,
	}
}

// Register creates an inactive account. The account stays locked out of
// client and reminder routes until an admin approves an activation
// request for it.
func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
	userAgent, ipAddress *string,
) (*RegisterResponse, error) {
	email := normalizeEmail(req.Email)

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	profile, err := s.profiles.Create(ctx, email, passwordHash)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateError("an account with this email")
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}

	pair, err := s.issueTokenPair(ctx, profile, "", userAgent, ipAddress)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "account registered",
		slog.String("user_id", profile.ID),
	)

	return &RegisterResponse{
		ID:       profile.ID,
		Email:    profile.Email,
		IsActive: profile.IsActive,
		Tokens:   pair,
	}, nil
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
	userAgent, ipAddress *string,
) (*TokenPairResponse, error) {
	email := normalizeEmail(req.Email)

	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// Burn the same argon2 cost as a real check so a missing
			// account is not distinguishable by response time.
			_, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, core.UnauthorizedError("invalid email or password")
		}
		return nil, fmt.Errorf("lookup profile: %w", err)
	}

	valid, err := core.VerifyPassword(req.Password, profile.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, core.UnauthorizedError("invalid email or password")
	}

	pair, err := s.issueTokenPair(ctx, profile, "", userAgent, ipAddress)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "login",
		slog.String("user_id", profile.ID),
		slog.Bool("active", profile.IsActive),
	)

	return pair, nil
}

// Refresh rotates the refresh token. Presenting an already-revoked
// token is treated as theft and revokes the whole token family.
func (s *Service) Refresh(
	ctx context.Context,
	req RefreshRequest,
	userAgent, ipAddress *string,
) (*TokenPairResponse, error) {
	hash := core.HashToken(req.RefreshToken)

	stored, err := s.repo.GetByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.TokenInvalidError()
		}
		return nil, fmt.Errorf("lookup refresh token: %w", err)
	}

	if stored.IsRevoked() {
		s.logger.WarnContext(ctx, "refresh token reuse detected",
			slog.String("user_id", stored.UserID),
			slog.String("family_id", stored.FamilyID),
		)
		if revokeErr := s.repo.RevokeFamily(ctx, stored.FamilyID); revokeErr != nil {
			s.logger.ErrorContext(ctx, "revoke token family",
				slog.String("error", revokeErr.Error()),
			)
		}
		return nil, core.TokenRevokedError()
	}

	if stored.IsExpired() {
		return nil, core.TokenExpiredError()
	}

	profile, err := s.profiles.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("lookup profile: %w", err)
	}

	pair, newTokenID, err := s.rotate(
		ctx, profile, stored.FamilyID, userAgent, ipAddress,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Revoke(ctx, stored.ID, &newTokenID); err != nil {
		return nil, fmt.Errorf("revoke rotated token: %w", err)
	}

	return pair, nil
}

func (s *Service) Logout(ctx context.Context, req LogoutRequest) error {
	hash := core.HashToken(req.RefreshToken)

	stored, err := s.repo.GetByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// Already gone, nothing to revoke.
			return nil
		}
		return fmt.Errorf("lookup refresh token: %w", err)
	}

	if err := s.repo.RevokeFamily(ctx, stored.FamilyID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	return nil
}

// LogoutAll revokes every refresh token and bumps the token version so
// outstanding access tokens die at the next request instead of their
// natural expiry.
func (s *Service) LogoutAll(ctx context.Context, userID string) error {
	if err := s.repo.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}

	version, err := s.profiles.IncrementTokenVersion(ctx, userID)
	if err != nil {
		return fmt.Errorf("increment token version: %w", err)
	}

	s.cacheTokenVersion(ctx, userID, version)

	return nil
}

func (s *Service) ChangePassword(
	ctx context.Context,
	userID string,
	req ChangePasswordRequest,
) error {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("lookup profile: %w", err)
	}

	valid, err := core.VerifyPassword(
		req.CurrentPassword, profile.PasswordHash,
	)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return core.UnauthorizedError("current password is incorrect")
	}

	newHash, err := core.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.profiles.UpdatePassword(ctx, userID, newHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	// Password changes invalidate every other session.
	return s.LogoutAll(ctx, userID)
}

func (s *Service) ListSessions(
	ctx context.Context,
	userID, currentRefreshToken string,
) ([]SessionInfo, error) {
	tokens, err := s.repo.ListActiveForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	currentHash := ""
	if currentRefreshToken != "" {
		currentHash = core.HashToken(currentRefreshToken)
	}

	sessions := make([]SessionInfo, 0, len(tokens))
	for i := range tokens {
		t := &tokens[i]
		sessions = append(sessions, SessionInfo{
			ID:        t.ID,
			CreatedAt: t.CreatedAt,
			ExpiresAt: t.ExpiresAt,
			UserAgent: t.UserAgent,
			IPAddress: t.IPAddress,
			Current:   currentHash != "" && t.TokenHash == currentHash,
			RevokedAt: t.RevokedAt,
		})
	}

	return sessions, nil
}

// RevokeSession kills one listed session by id. Sessions belong to
// token families, so revoking one takes its rotated descendants too.
func (s *Service) RevokeSession(
	ctx context.Context,
	userID, sessionID string,
) error {
	if err := s.repo.RevokeFamilyByID(ctx, sessionID, userID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError("session")
		}
		return fmt.Errorf("revoke session: %w", err)
	}

	s.logger.InfoContext(ctx, "session revoked",
		slog.String("user_id", userID),
		slog.String("session_id", sessionID),
	)

	return nil
}

func (s *Service) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, time.Now())
}

func (s *Service) issueTokenPair(
	ctx context.Context,
	profile *ProfileInfo,
	familyID string,
	userAgent, ipAddress *string,
) (*TokenPairResponse, error) {
	pair, _, err := s.rotate(ctx, profile, familyID, userAgent, ipAddress)
	return pair, err
}

func (s *Service) rotate(
	ctx context.Context,
	profile *ProfileInfo,
	familyID string,
	userAgent, ipAddress *string,
) (*TokenPairResponse, string, error) {
	accessToken, err := s.jwt.CreateAccessToken(AccessTokenClaims{
		UserID:       profile.ID,
		Role:         profile.Role,
		Active:       profile.IsActive,
		Plan:         profile.Plan,
		TokenVersion: profile.TokenVersion,
	})
	if err != nil {
		return nil, "", fmt.Errorf("create access token: %w", err)
	}

	refreshData, err := s.jwt.CreateRefreshToken(profile.ID, familyID)
	if err != nil {
		return nil, "", err
	}

	stored, err := s.repo.Store(
		ctx,
		profile.ID, refreshData.Hash, refreshData.FamilyID,
		refreshData.ExpiresAt,
		userAgent, ipAddress,
	)
	if err != nil {
		return nil, "", err
	}

	return &TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshData.Token,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.config.AccessTokenExpire.Seconds()),
	}, stored.ID, nil
}

func (s *Service) cacheTokenVersion(
	ctx context.Context,
	userID string,
	version int,
) {
	if s.redis == nil {
		return
	}

	// TTL matches the access token lifetime. After that every token in
	// flight has expired on its own and the marker is dead weight.
	err := s.redis.Client.Set(
		ctx,
		tokenVersionKey(userID),
		version,
		s.config.AccessTokenExpire,
	).Err()
	if err != nil {
		s.logger.WarnContext(ctx, "cache token version",
			slog.String("error", err.Error()),
		)
	}
}

func tokenVersionKey(userID string) string {
	return "authver:" + userID
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RevocationVerifier layers the Redis token-version marker on top of
// signature verification, so LogoutAll and password changes take effect
// before access tokens expire. Redis being down fails open to signature
// checks only.
type RevocationVerifier struct {
	jwt    *JWTManager
	redis  *core.Redis
	logger *slog.Logger
}

func NewRevocationVerifier(
	jwtManager *JWTManager,
	redisClient *core.Redis,
	logger *slog.Logger,
) *RevocationVerifier {
	return &RevocationVerifier{
		jwt:    jwtManager,
		redis:  redisClient,
		logger: logger,
	}
}

var _ middleware.TokenVerifier = (*RevocationVerifier)(nil)

func (v *RevocationVerifier) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := v.jwt.VerifyAccessToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if v.redis == nil {
		return claims, nil
	}

	val, err := v.redis.Client.Get(ctx, tokenVersionKey(claims.UserID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			v.logger.WarnContext(ctx, "token version lookup failed",
				slog.String("error", err.Error()),
			)
		}
		return claims, nil
	}

	minVersion, parseErr := strconv.Atoi(val)
	if parseErr != nil {
		return claims, nil
	}

	if claims.TokenVersion < minVersion {
		return nil, fmt.Errorf(
			"stale token version: %w", core.ErrTokenRevoked,
		)
	}

	return claims, nil
}
