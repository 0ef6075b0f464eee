// AngelaMos | 2026
// service.go

package reminder

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/payping-app/backend/internal/client"
	"github.com/payping-app/backend/internal/core"
)

// ClientDirectory is the slice of the client package reminders need:
// ownership checks when attaching a reminder and the dashboard count.
type ClientDirectory interface {
	Get(ctx context.Context, userID, clientID string) (*client.Client, error)
	Count(ctx context.Context, userID string) (int, error)
}

type Service struct {
	repo    Repository
	clients ClientDirectory
	loc     *time.Location
	logger  *slog.Logger

	// now is swapped out in tests to pin bucket boundaries.
	now func() time.Time
}

func NewService(
	repo Repository,
	clients ClientDirectory,
	loc *time.Location,
	logger *slog.Logger,
) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:    repo,
		clients: clients,
		loc:     loc,
		logger:  logger,
		now:     time.Now,
	}
}

// Create attaches a reminder to one of the caller's clients. An empty
// message is seeded from the (kind, channel) template with the client
// name filled in. Past remind_at values are accepted: backfilling an
// overdue follow-up is a normal workflow.
func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreateReminderRequest,
) (*ReminderResponse, error) {
	c, err := s.clients.Get(ctx, userID, req.ClientID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("client")
		}
		return nil, err
	}

	message := req.Message
	if message == "" {
		message = TemplateMessage(req.Kind, req.Channel, c.Name)
	}

	rem := &Reminder{
		UserID:   userID,
		ClientID: req.ClientID,
		Kind:     req.Kind,
		Channel:  req.Channel,
		Message:  message,
		RemindAt: req.RemindAt,
	}

	if err := s.repo.Create(ctx, rem); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "reminder created",
		slog.String("reminder_id", rem.ID),
		slog.String("user_id", userID),
		slog.String("kind", rem.Kind),
	)

	resp := s.withClientName(rem, c.Name)
	return &resp, nil
}

func (s *Service) Get(
	ctx context.Context,
	userID, reminderID string,
) (*ReminderResponse, error) {
	rem, err := s.repo.GetByID(ctx, userID, reminderID)
	if err != nil {
		return nil, err
	}

	c, err := s.clients.Get(ctx, userID, rem.ClientID)
	if err != nil {
		return nil, err
	}

	resp := s.withClientName(rem, c.Name)
	return &resp, nil
}

// List returns the user's reminders, optionally narrowed to a bucket.
// "all" and "" mean everything.
func (s *Service) List(
	ctx context.Context,
	userID, bucketFilter string,
) ([]ReminderResponse, error) {
	if !ValidBucketFilter(bucketFilter) {
		return nil, core.ValidationError("invalid bucket filter")
	}

	reminders, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)

	if bucketFilter == "" || bucketFilter == "all" {
		return toReminderResponseList(now, reminders), nil
	}

	bucket := Bucket(bucketFilter)
	filtered := []ReminderWithClient{}
	for i := range reminders {
		if Classify(now, &reminders[i].Reminder) == bucket {
			filtered = append(filtered, reminders[i])
		}
	}

	return toReminderResponseList(now, filtered), nil
}

// Update edits a reminder in place. Status and done_at are never
// touched here, so editing a completed reminder cannot un-complete it.
func (s *Service) Update(
	ctx context.Context,
	userID, reminderID string,
	req UpdateReminderRequest,
) (*ReminderResponse, error) {
	rem, err := s.repo.GetByID(ctx, userID, reminderID)
	if err != nil {
		return nil, err
	}

	if req.ClientID != nil && *req.ClientID != rem.ClientID {
		if _, err := s.clients.Get(ctx, userID, *req.ClientID); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return nil, core.NotFoundError("client")
			}
			return nil, err
		}
		rem.ClientID = *req.ClientID
	}
	if req.Kind != nil {
		rem.Kind = *req.Kind
	}
	if req.Channel != nil {
		rem.Channel = *req.Channel
	}
	if req.Message != nil {
		rem.Message = *req.Message
	}
	if req.RemindAt != nil {
		rem.RemindAt = *req.RemindAt
	}

	if err := s.repo.Update(ctx, rem); err != nil {
		return nil, err
	}

	c, err := s.clients.Get(ctx, userID, rem.ClientID)
	if err != nil {
		return nil, err
	}

	resp := s.withClientName(rem, c.Name)
	return &resp, nil
}

// MarkDone completes a pending reminder. Completing one that is
// already done is a conflict, not a no-op, so double-taps surface in
// the client instead of silently restamping done_at.
func (s *Service) MarkDone(
	ctx context.Context,
	userID, reminderID string,
) (*ReminderResponse, error) {
	rem, err := s.repo.MarkDone(ctx, userID, reminderID)
	if err != nil {
		if errors.Is(err, core.ErrConflict) {
			if _, getErr := s.repo.GetByID(ctx, userID, reminderID); getErr != nil {
				return nil, getErr
			}
			return nil, core.ConflictError("reminder is already done")
		}
		return nil, err
	}

	c, err := s.clients.Get(ctx, userID, rem.ClientID)
	if err != nil {
		return nil, err
	}

	resp := s.withClientName(rem, c.Name)
	return &resp, nil
}

func (s *Service) Delete(
	ctx context.Context,
	userID, reminderID string,
) error {
	return s.repo.Delete(ctx, userID, reminderID)
}

// Dashboard assembles the daily view: what is due today, what slipped,
// per-bucket totals, and how many clients the user tracks.
func (s *Service) Dashboard(
	ctx context.Context,
	userID string,
) (*DashboardResponse, error) {
	reminders, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	clientCount, err := s.clients.Count(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)

	dueToday := []ReminderResponse{}
	overdue := []ReminderResponse{}
	counts := DashboardCounts{}

	for i := range reminders {
		switch Classify(now, &reminders[i].Reminder) {
		case BucketDueToday:
			counts.DueToday++
			dueToday = append(dueToday, toReminderResponse(now, &reminders[i]))
		case BucketDueThisWeek:
			counts.DueThisWeek++
		case BucketOverdue:
			counts.Overdue++
			overdue = append(overdue, toReminderResponse(now, &reminders[i]))
		case BucketDone:
			counts.Done++
		case BucketUpcoming:
			counts.Upcoming++
		}
	}

	return &DashboardResponse{
		DueToday:    dueToday,
		Overdue:     overdue,
		Counts:      counts,
		ClientCount: clientCount,
	}, nil
}

func (s *Service) withClientName(
	rem *Reminder,
	clientName string,
) ReminderResponse {
	now := s.now().In(s.loc)
	return toReminderResponse(now, &ReminderWithClient{
		Reminder:   *rem,
		ClientName: clientName,
	})
}
