// AngelaMos | 2026
// service.go

package client

import (
	"context"
	"log/slog"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreateClientRequest,
) (*Client, error) {
	c := &Client{
		UserID:  userID,
		Name:    req.Name,
		Contact: req.Contact,
		Notes:   req.Notes,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "client created",
		slog.String("client_id", c.ID),
		slog.String("user_id", userID),
	)

	return c, nil
}

func (s *Service) Get(
	ctx context.Context,
	userID, clientID string,
) (*Client, error) {
	return s.repo.GetByID(ctx, userID, clientID)
}

func (s *Service) List(
	ctx context.Context,
	userID string,
	params ListClientsParams,
) ([]Client, int, error) {
	params.Normalize()
	return s.repo.List(ctx, userID, params)
}

func (s *Service) Update(
	ctx context.Context,
	userID, clientID string,
	req UpdateClientRequest,
) (*Client, error) {
	c := &Client{
		ID:      clientID,
		UserID:  userID,
		Name:    req.Name,
		Contact: req.Contact,
		Notes:   req.Notes,
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// Delete removes the client and, through the schema cascade, every
// reminder attached to it.
func (s *Service) Delete(
	ctx context.Context,
	userID, clientID string,
) error {
	if err := s.repo.Delete(ctx, userID, clientID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "client deleted",
		slog.String("client_id", clientID),
		slog.String("user_id", userID),
	)

	return nil
}

func (s *Service) Count(ctx context.Context, userID string) (int, error) {
	return s.repo.CountForUser(ctx, userID)
}
