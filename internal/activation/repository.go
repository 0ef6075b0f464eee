// AngelaMos | 2026
// repository.go

package activation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/payping-app/backend/internal/core"
	"github.com/payping-app/backend/internal/profile"
)

// RequestWithEmail is the admin review view: the request joined with
// the requester's email.
type RequestWithEmail struct {
	ActivationRequest
	UserEmail string `db:"user_email"`
}

type Repository interface {
	Create(ctx context.Context, req *ActivationRequest) error
	GetByID(ctx context.Context, id string) (*ActivationRequest, error)
	ListByUser(ctx context.Context, userID string) ([]ActivationRequest, error)
	List(ctx context.Context, params ListParams) ([]RequestWithEmail, int, error)
	Resolve(
		ctx context.Context,
		id, status, reviewerID string,
	) (*ActivationRequest, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// repository holds the root *sqlx.DB rather than core.DBTX because
// Resolve opens its own transaction.
type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const requestColumns = `
	id, user_id, plan_requested, method, reference, amount, note,
	status, created_at, reviewed_at, reviewed_by`

func (r *repository) Create(
	ctx context.Context,
	req *ActivationRequest,
) error {
	query := `
		INSERT INTO activation_requests (
			id, user_id, plan_requested, method, reference, amount, note
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING status, created_at`

	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	err := r.db.GetContext(ctx, req, query,
		req.ID,
		req.UserID,
		req.PlanRequested,
		req.Method,
		req.Reference,
		req.Amount,
		req.Note,
	)
	if err != nil {
		return fmt.Errorf("create activation request: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*ActivationRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM activation_requests
		WHERE id = $1`

	var req ActivationRequest
	err := r.db.GetContext(ctx, &req, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get activation request: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("get activation request: %w", err)
	}

	return &req, nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID string,
) ([]ActivationRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM activation_requests
		WHERE user_id = $1
		ORDER BY created_at DESC`

	requests := []ActivationRequest{}
	if err := r.db.SelectContext(ctx, &requests, query, userID); err != nil {
		return nil, fmt.Errorf("list activation requests: %w", err)
	}

	return requests, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]RequestWithEmail, int, error) {
	where := ""
	args := []any{}
	if params.Status != "" {
		where = "WHERE ar.status = $1"
		args = append(args, params.Status)
	}

	countQuery := fmt.Sprintf(
		`SELECT COUNT(*) FROM activation_requests ar %s`, where,
	)

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count activation requests: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT
			ar.id, ar.user_id, ar.plan_requested, ar.method, ar.reference,
			ar.amount, ar.note, ar.status, ar.created_at, ar.reviewed_at,
			ar.reviewed_by,
			p.email AS user_email
		FROM activation_requests ar
		JOIN profiles p ON p.id = ar.user_id
		%s
		ORDER BY ar.created_at DESC
		LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2,
	)

	args = append(args, params.PageSize, params.Offset())

	requests := []RequestWithEmail{}
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list activation requests: %w", err)
	}

	return requests, total, nil
}

// Resolve flips a pending request to approved or rejected. Approval and
// the profile activation commit in the same transaction, and the
// status = 'pending' guard makes a second resolve of the same request
// lose the race instead of double-applying.
func (r *repository) Resolve(
	ctx context.Context,
	id, status, reviewerID string,
) (*ActivationRequest, error) {
	var resolved ActivationRequest

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE activation_requests
			SET status = $2, reviewed_at = NOW(), reviewed_by = $3
			WHERE id = $1 AND status = 'pending'
			RETURNING ` + requestColumns

		err := tx.GetContext(ctx, &resolved, query, id, status, reviewerID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("resolve activation request: %w", core.ErrConflict)
			}
			return fmt.Errorf("resolve activation request: %w", err)
		}

		if status == StatusApproved {
			if err := profile.ActivateTx(
				ctx, tx, resolved.UserID, resolved.PlanRequested,
			); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &resolved, nil
}

func (r *repository) CountByStatus(
	ctx context.Context,
) (map[string]int, error) {
	query := `
		SELECT status, COUNT(*) AS count
		FROM activation_requests
		GROUP BY status`

	rows := []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count activation requests: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}
