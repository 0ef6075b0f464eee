// AngelaMos | 2026
// repository.go

package reminder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/payping-app/backend/internal/core"
)

// ReminderWithClient joins the reminder with its client's name for
// list views and message rendering.
type ReminderWithClient struct {
	Reminder
	ClientName string `db:"client_name"`
}

type Repository interface {
	Create(ctx context.Context, r *Reminder) error
	GetByID(ctx context.Context, userID, id string) (*Reminder, error)
	ListForUser(ctx context.Context, userID string) ([]ReminderWithClient, error)
	Update(ctx context.Context, r *Reminder) error
	MarkDone(ctx context.Context, userID, id string) (*Reminder, error)
	Delete(ctx context.Context, userID, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const reminderColumns = `
	id, user_id, client_id, kind, channel, message, status,
	remind_at, done_at, created_at, updated_at`

func (r *repository) Create(ctx context.Context, rem *Reminder) error {
	query := `
		INSERT INTO reminders (
			id, user_id, client_id, kind, channel, message, remind_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING status, created_at, updated_at`

	if rem.ID == "" {
		rem.ID = uuid.New().String()
	}

	err := r.db.GetContext(ctx, rem, query,
		rem.ID,
		rem.UserID,
		rem.ClientID,
		rem.Kind,
		rem.Channel,
		rem.Message,
		rem.RemindAt,
	)
	if err != nil {
		return fmt.Errorf("create reminder: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	userID, id string,
) (*Reminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM reminders
		WHERE id = $1 AND user_id = $2`

	var rem Reminder
	err := r.db.GetContext(ctx, &rem, query, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get reminder: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("get reminder: %w", err)
	}

	return &rem, nil
}

// ListForUser returns every reminder the user has, oldest due first.
// Bucketing happens in memory over this list.
func (r *repository) ListForUser(
	ctx context.Context,
	userID string,
) ([]ReminderWithClient, error) {
	query := `
		SELECT
			r.id, r.user_id, r.client_id, r.kind, r.channel, r.message,
			r.status, r.remind_at, r.done_at, r.created_at, r.updated_at,
			c.name AS client_name
		FROM reminders r
		JOIN clients c ON c.id = r.client_id
		WHERE r.user_id = $1
		ORDER BY r.remind_at ASC`

	reminders := []ReminderWithClient{}
	if err := r.db.SelectContext(ctx, &reminders, query, userID); err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}

	return reminders, nil
}

func (r *repository) Update(ctx context.Context, rem *Reminder) error {
	query := `
		UPDATE reminders
		SET client_id = $3, kind = $4, channel = $5, message = $6,
			remind_at = $7, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at`

	err := r.db.GetContext(ctx, rem, query,
		rem.ID,
		rem.UserID,
		rem.ClientID,
		rem.Kind,
		rem.Channel,
		rem.Message,
		rem.RemindAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("update reminder: %w", core.ErrNotFound)
		}
		return fmt.Errorf("update reminder: %w", err)
	}

	return nil
}

// MarkDone completes a pending reminder. The status guard means a
// reminder that is already done comes back as ErrConflict instead of
// silently restamping done_at.
func (r *repository) MarkDone(
	ctx context.Context,
	userID, id string,
) (*Reminder, error) {
	query := `
		UPDATE reminders
		SET status = 'done', done_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND status = 'pending'
		RETURNING ` + reminderColumns

	var rem Reminder
	err := r.db.GetContext(ctx, &rem, query, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("mark reminder done: %w", core.ErrConflict)
		}
		return nil, fmt.Errorf("mark reminder done: %w", err)
	}

	return &rem, nil
}

func (r *repository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM reminders WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete reminder: %w", core.ErrNotFound)
	}

	return nil
}
