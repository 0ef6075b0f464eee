// AngelaMos | 2026
// service.go

package activation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/payping-app/backend/internal/core"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Submit records a payment claim. Duplicate pending requests from the
// same user are allowed on purpose: users resubmit when they think the
// first one got lost, and the admin reviews them together.
func (s *Service) Submit(
	ctx context.Context,
	userID string,
	req SubmitRequest,
) (*ActivationRequest, error) {
	if _, ok := PlanByID(req.Plan); !ok {
		return nil, core.ValidationError("unknown plan")
	}
	if !ValidMethod(req.Plan, req.Method) {
		return nil, core.ValidationError(
			fmt.Sprintf("%s is not a payment method for the %s plan",
				req.Method, req.Plan),
		)
	}

	request := &ActivationRequest{
		UserID:        userID,
		PlanRequested: req.Plan,
		Method:        req.Method,
		Reference:     req.Reference,
		Amount:        req.Amount,
		Note:          req.Note,
	}

	if err := s.repo.Create(ctx, request); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "activation request submitted",
		slog.String("request_id", request.ID),
		slog.String("user_id", userID),
		slog.String("plan", req.Plan),
	)

	return request, nil
}

func (s *Service) ListOwn(
	ctx context.Context,
	userID string,
) ([]ActivationRequest, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListAll(
	ctx context.Context,
	actor core.Actor,
	params ListParams,
) ([]RequestWithEmail, int, error) {
	if !actor.IsAdmin() {
		return nil, 0, core.ErrForbidden
	}

	params.Normalize()

	if params.Status != "" &&
		params.Status != StatusPending &&
		params.Status != StatusApproved &&
		params.Status != StatusRejected {
		return nil, 0, core.ValidationError("invalid status filter")
	}

	return s.repo.List(ctx, params)
}

// Resolve approves or rejects a pending request. A request that has
// already been resolved stays exactly as it is and the caller gets a
// conflict back.
func (s *Service) Resolve(
	ctx context.Context,
	actor core.Actor,
	requestID string,
	decision string,
) (*ActivationRequest, error) {
	if !actor.IsAdmin() {
		return nil, core.ErrForbidden
	}

	if decision != StatusApproved && decision != StatusRejected {
		return nil, core.ValidationError(
			"decision must be approved or rejected",
		)
	}

	resolved, err := s.repo.Resolve(ctx, requestID, decision, actor.ID)
	if err != nil {
		if errors.Is(err, core.ErrConflict) {
			// The guarded update matches nothing for both a missing
			// request and an already-resolved one. Tell them apart.
			if _, getErr := s.repo.GetByID(ctx, requestID); getErr != nil {
				return nil, getErr
			}
			return nil, core.ConflictError(
				"activation request has already been resolved",
			)
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "activation request resolved",
		slog.String("request_id", resolved.ID),
		slog.String("user_id", resolved.UserID),
		slog.String("decision", decision),
		slog.String("reviewed_by", actor.ID),
	)

	return resolved, nil
}

func (s *Service) PendingCount(ctx context.Context) (int, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return 0, err
	}
	return counts[StatusPending], nil
}
