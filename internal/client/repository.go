// AngelaMos | 2026
// repository.go

package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/payping-app/backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, c *Client) error
	GetByID(ctx context.Context, userID, id string) (*Client, error)
	List(
		ctx context.Context,
		userID string,
		params ListClientsParams,
	) ([]Client, int, error)
	Update(ctx context.Context, c *Client) error
	Delete(ctx context.Context, userID, id string) error
	CountForUser(ctx context.Context, userID string) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const clientColumns = `
	id, user_id, name, contact, notes, created_at, updated_at`

func (r *repository) Create(ctx context.Context, c *Client) error {
	query := `
		INSERT INTO clients (id, user_id, name, contact, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	if c.ID == "" {
		c.ID = uuid.New().String()
	}

	err := r.db.GetContext(ctx, c, query,
		c.ID, c.UserID, c.Name, c.Contact, c.Notes,
	)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	return nil
}

// GetByID scopes by owner in the query itself, so another user's
// client ID behaves exactly like a missing one.
func (r *repository) GetByID(
	ctx context.Context,
	userID, id string,
) (*Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE id = $1 AND user_id = $2`

	var c Client
	err := r.db.GetContext(ctx, &c, query, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get client: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("get client: %w", err)
	}

	return &c, nil
}

func (r *repository) List(
	ctx context.Context,
	userID string,
	params ListClientsParams,
) ([]Client, int, error) {
	where := "WHERE user_id = $1"
	args := []any{userID}

	if params.Search != "" {
		where += fmt.Sprintf(
			" AND (name ILIKE $%d OR contact ILIKE $%d)",
			len(args)+1, len(args)+1,
		)
		args = append(args, "%"+escapeLike(params.Search)+"%")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM clients %s`, where)

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM clients
		%s
		ORDER BY name ASC
		LIMIT $%d OFFSET $%d`,
		clientColumns, where, len(args)+1, len(args)+2,
	)

	args = append(args, params.PageSize, params.Offset())

	clients := []Client{}
	if err := r.db.SelectContext(ctx, &clients, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}

	return clients, total, nil
}

func (r *repository) Update(ctx context.Context, c *Client) error {
	query := `
		UPDATE clients
		SET name = $3, contact = $4, notes = $5, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, c, query,
		c.ID, c.UserID, c.Name, c.Contact, c.Notes,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("update client: %w", core.ErrNotFound)
		}
		return fmt.Errorf("update client: %w", err)
	}

	return nil
}

// Delete also removes the client's reminders through the foreign key
// cascade in the schema.
func (r *repository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM clients WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete client: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) CountForUser(
	ctx context.Context,
	userID string,
) (int, error) {
	query := `SELECT COUNT(*) FROM clients WHERE user_id = $1`

	var count int
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("count clients: %w", err)
	}

	return count, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
