// AngelaMos | 2026
// repository.go

package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/payping-app/backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, profile *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
	GetByEmail(ctx context.Context, email string) (*Profile, error)
	SetActive(ctx context.Context, id string, active bool) (*Profile, error)
	SetPlan(ctx context.Context, id, plan string) (*Profile, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	IncrementTokenVersion(ctx context.Context, id string) (int, error)
	List(ctx context.Context, params ListProfilesParams) ([]Profile, int, error)
	Counts(ctx context.Context) (total, active int, err error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const profileColumns = `
	id, email, password_hash, role, is_active, plan, activated_at,
	token_version, created_at, updated_at`

func (r *repository) Create(ctx context.Context, profile *Profile) error {
	query := `
		INSERT INTO profiles (id, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING is_active, token_version, created_at, updated_at`

	err := r.db.GetContext(ctx, profile, query,
		profile.ID,
		profile.Email,
		profile.PasswordHash,
		profile.Role,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create profile: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create profile: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Profile, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM profiles WHERE id = $1`,
		profileColumns,
	)

	var profile Profile
	err := r.db.GetContext(ctx, &profile, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get profile: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	return &profile, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*Profile, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM profiles WHERE email = $1`,
		profileColumns,
	)

	var profile Profile
	err := r.db.GetContext(ctx, &profile, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get profile by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile by email: %w", err)
	}

	return &profile, nil
}

// SetActive toggles entitlement. activated_at is re-stamped on every
// inactive-to-active transition and left alone on deactivation, so it
// records the most recent activation rather than the first.
func (r *repository) SetActive(
	ctx context.Context,
	id string,
	active bool,
) (*Profile, error) {
	query := fmt.Sprintf(`
		UPDATE profiles
		SET is_active = $2,
		    activated_at = CASE
		        WHEN $2 AND NOT is_active THEN NOW()
		        ELSE activated_at
		    END,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING %s`, profileColumns)

	var profile Profile
	err := r.db.GetContext(ctx, &profile, query, id, active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("set active: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("set active: %w", err)
	}

	return &profile, nil
}

func (r *repository) SetPlan(
	ctx context.Context,
	id, plan string,
) (*Profile, error) {
	query := fmt.Sprintf(`
		UPDATE profiles
		SET plan = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING %s`, profileColumns)

	var profile Profile
	err := r.db.GetContext(ctx, &profile, query, id, plan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("set plan: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("set plan: %w", err)
	}

	return &profile, nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	query := `
		UPDATE profiles
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) IncrementTokenVersion(
	ctx context.Context,
	id string,
) (int, error) {
	query := `
		UPDATE profiles
		SET token_version = token_version + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING token_version`

	var version int
	err := r.db.GetContext(ctx, &version, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("increment token version: %w", core.ErrNotFound)
		}
		return 0, fmt.Errorf("increment token version: %w", err)
	}

	return version, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListProfilesParams,
) ([]Profile, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, "TRUE")

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"email ILIKE $%d", argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	if params.Active != "" {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argIdx))
		args = append(args, params.Active == "true")
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM profiles WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count profiles: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM profiles
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		profileColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var profiles []Profile
	if err := r.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list profiles: %w", err)
	}

	return profiles, total, nil
}

func (r *repository) Counts(
	ctx context.Context,
) (total, active int, err error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active)
		FROM profiles`

	err = r.db.QueryRowxContext(ctx, query).Scan(&total, &active)
	if err != nil {
		return 0, 0, fmt.Errorf("count profiles: %w", err)
	}

	return total, active, nil
}

// ActivateTx applies the profile half of an activation approval inside
// the caller's transaction. It always re-stamps activated_at.
func ActivateTx(
	ctx context.Context,
	tx core.DBTX,
	profileID, plan string,
) error {
	query := `
		UPDATE profiles
		SET is_active = TRUE, plan = $2, activated_at = NOW(),
		    updated_at = NOW()
		WHERE id = $1`

	result, err := tx.ExecContext(ctx, query, profileID, plan)
	if err != nil {
		return fmt.Errorf("activate profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("activate profile: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("activate profile: %w", core.ErrNotFound)
	}

	return nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
