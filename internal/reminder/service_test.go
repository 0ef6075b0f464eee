// AngelaMos | 2026
// service_test.go

package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/payping-app/backend/internal/client"
	"github.com/payping-app/backend/internal/core"
)

type fakeRepo struct {
	reminders map[string]*Reminder
	nextID    int
	now       time.Time
}

func newFakeRepo(now time.Time) *fakeRepo {
	return &fakeRepo{
		reminders: map[string]*Reminder{},
		now:       now,
	}
}

func (f *fakeRepo) Create(_ context.Context, r *Reminder) error {
	if r.ID == "" {
		f.nextID++
		r.ID = fmt.Sprintf("rem-%d", f.nextID)
	}
	r.Status = StatusPending
	r.CreatedAt = f.now
	r.UpdatedAt = f.now
	cp := *r
	f.reminders[r.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(
	_ context.Context,
	userID, id string,
) (*Reminder, error) {
	r, ok := f.reminders[id]
	if !ok || r.UserID != userID {
		return nil, fmt.Errorf("get reminder: %w", core.ErrNotFound)
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRepo) ListForUser(
	_ context.Context,
	userID string,
) ([]ReminderWithClient, error) {
	out := []ReminderWithClient{}
	for _, r := range f.reminders {
		if r.UserID == userID {
			out = append(out, ReminderWithClient{
				Reminder:   *r,
				ClientName: "Alice",
			})
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, rem *Reminder) error {
	stored, ok := f.reminders[rem.ID]
	if !ok || stored.UserID != rem.UserID {
		return fmt.Errorf("update reminder: %w", core.ErrNotFound)
	}
	stored.ClientID = rem.ClientID
	stored.Kind = rem.Kind
	stored.Channel = rem.Channel
	stored.Message = rem.Message
	stored.RemindAt = rem.RemindAt
	stored.UpdatedAt = f.now
	return nil
}

func (f *fakeRepo) MarkDone(
	_ context.Context,
	userID, id string,
) (*Reminder, error) {
	r, ok := f.reminders[id]
	if !ok || r.UserID != userID || r.Status != StatusPending {
		return nil, fmt.Errorf("mark reminder done: %w", core.ErrConflict)
	}
	doneAt := f.now
	r.Status = StatusDone
	r.DoneAt = &doneAt
	r.UpdatedAt = f.now
	cp := *r
	return &cp, nil
}

func (f *fakeRepo) Delete(_ context.Context, userID, id string) error {
	r, ok := f.reminders[id]
	if !ok || r.UserID != userID {
		return fmt.Errorf("delete reminder: %w", core.ErrNotFound)
	}
	delete(f.reminders, id)
	return nil
}

type fakeClients struct {
	clients map[string]*client.Client
}

func (f *fakeClients) Get(
	_ context.Context,
	userID, clientID string,
) (*client.Client, error) {
	c, ok := f.clients[clientID]
	if !ok || c.UserID != userID {
		return nil, fmt.Errorf("get client: %w", core.ErrNotFound)
	}
	return c, nil
}

func (f *fakeClients) Count(
	_ context.Context,
	userID string,
) (int, error) {
	n := 0
	for _, c := range f.clients {
		if c.UserID == userID {
			n++
		}
	}
	return n, nil
}

func newTestService(t *testing.T) (*Service, *fakeRepo) {
	t.Helper()

	repo := newFakeRepo(testNow)
	clients := &fakeClients{clients: map[string]*client.Client{
		"client-1": {ID: "client-1", UserID: "user-1", Name: "Alice"},
		"client-2": {ID: "client-2", UserID: "user-2", Name: "Mallory"},
	}}

	svc := NewService(repo, clients, time.UTC, slog.New(slog.DiscardHandler))
	svc.now = func() time.Time { return testNow }
	return svc, repo
}

func TestCreateSeedsTemplateWhenMessageEmpty(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	resp, err := svc.Create(context.Background(), "user-1", CreateReminderRequest{
		ClientID: "client-1",
		Kind:     KindPayment,
		Channel:  ChannelWhatsApp,
		RemindAt: testNow.Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	want := "Hi Alice! This is a friendly reminder about the pending " +
		"payment. Please let me know if you have any questions."
	if resp.Message != want {
		t.Fatalf("seeded message = %q, want %q", resp.Message, want)
	}
}

func TestCreateKeepsCustomMessage(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	resp, err := svc.Create(context.Background(), "user-1", CreateReminderRequest{
		ClientID: "client-1",
		Kind:     KindFollowup,
		Channel:  ChannelEmail,
		Message:  "Hey, about that quote...",
		RemindAt: testNow.Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if resp.Message != "Hey, about that quote..." {
		t.Fatalf("message = %q, want custom message kept", resp.Message)
	}
}

func TestCreateRejectsForeignClient(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), "user-1", CreateReminderRequest{
		ClientID: "client-2",
		Kind:     KindFollowup,
		Channel:  ChannelWhatsApp,
		RemindAt: testNow,
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("Create() with another user's client: err = %v, want not found", err)
	}
}

func TestCreateAllowsPastRemindAt(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	resp, err := svc.Create(context.Background(), "user-1", CreateReminderRequest{
		ClientID: "client-1",
		Kind:     KindFollowup,
		Channel:  ChannelWhatsApp,
		RemindAt: testNow.Add(-72 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Create() with past remind_at: %v", err)
	}
	if resp.Bucket != BucketOverdue {
		t.Fatalf("bucket = %q, want %q", resp.Bucket, BucketOverdue)
	}
}

func TestMarkDoneTwiceConflicts(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	created, err := svc.Create(context.Background(), "user-1", CreateReminderRequest{
		ClientID: "client-1",
		Kind:     KindFollowup,
		Channel:  ChannelWhatsApp,
		RemindAt: testNow,
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	first, err := svc.MarkDone(context.Background(), "user-1", created.ID)
	if err != nil {
		t.Fatalf("first MarkDone() error: %v", err)
	}
	if first.Status != StatusDone || first.DoneAt == nil {
		t.Fatalf("after MarkDone: status=%q done_at=%v", first.Status, first.DoneAt)
	}

	_, err = svc.MarkDone(context.Background(), "user-1", created.ID)
	if !errors.Is(err, core.ErrConflict) {
		t.Fatalf("second MarkDone() err = %v, want conflict", err)
	}
}

func TestMarkDoneMissingReminderIsNotFound(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	_, err := svc.MarkDone(context.Background(), "user-1", "no-such-id")
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("MarkDone(missing) err = %v, want not found", err)
	}
}

func TestUpdateNeverUncompletes(t *testing.T) {
	t.Parallel()
	svc, repo := newTestService(t)

	created, err := svc.Create(context.Background(), "user-1", CreateReminderRequest{
		ClientID: "client-1",
		Kind:     KindFollowup,
		Channel:  ChannelWhatsApp,
		RemindAt: testNow,
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if _, err := svc.MarkDone(context.Background(), "user-1", created.ID); err != nil {
		t.Fatalf("MarkDone() error: %v", err)
	}

	newMessage := "updated after completion"
	newRemindAt := testNow.Add(48 * time.Hour)
	resp, err := svc.Update(context.Background(), "user-1", created.ID,
		UpdateReminderRequest{
			Message:  &newMessage,
			RemindAt: &newRemindAt,
		})
	if err != nil {
		t.Fatalf("Update() on done reminder: %v", err)
	}

	if resp.Status != StatusDone {
		t.Fatalf("status after edit = %q, want %q", resp.Status, StatusDone)
	}
	if resp.Message != newMessage {
		t.Fatalf("message = %q, want %q", resp.Message, newMessage)
	}

	stored := repo.reminders[created.ID]
	if stored.Status != StatusDone || stored.DoneAt == nil {
		t.Fatalf("stored status=%q done_at=%v after edit",
			stored.Status, stored.DoneAt)
	}
}

func TestListFiltersByBucket(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	mk := func(remindAt time.Time) string {
		t.Helper()
		resp, err := svc.Create(
			context.Background(), "user-1", CreateReminderRequest{
				ClientID: "client-1",
				Kind:     KindFollowup,
				Channel:  ChannelWhatsApp,
				RemindAt: remindAt,
			})
		if err != nil {
			t.Fatalf("Create() error: %v", err)
		}
		return resp.ID
	}

	mk(testNow.Add(2 * time.Hour))         // today
	overdueID := mk(testNow.AddDate(0, 0, -3)) // overdue
	mk(testNow.AddDate(0, 0, 2))           // this week
	_ = overdueID

	overdue, err := svc.List(context.Background(), "user-1", "overdue")
	if err != nil {
		t.Fatalf("List(overdue) error: %v", err)
	}
	if len(overdue) != 1 || overdue[0].Bucket != BucketOverdue {
		t.Fatalf("List(overdue) = %+v, want exactly the overdue reminder", overdue)
	}

	all, err := svc.List(context.Background(), "user-1", "all")
	if err != nil {
		t.Fatalf("List(all) error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List(all) returned %d, want 3", len(all))
	}

	if _, err := svc.List(context.Background(), "user-1", "bogus"); err == nil {
		t.Fatal("List(bogus) succeeded, want validation error")
	}
}

func TestDashboard(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	mk := func(remindAt time.Time) string {
		t.Helper()
		resp, err := svc.Create(
			context.Background(), "user-1", CreateReminderRequest{
				ClientID: "client-1",
				Kind:     KindPayment,
				Channel:  ChannelEmail,
				RemindAt: remindAt,
			})
		if err != nil {
			t.Fatalf("Create() error: %v", err)
		}
		return resp.ID
	}

	mk(testNow.Add(time.Hour))
	mk(testNow.AddDate(0, 0, -1))
	doneID := mk(testNow.AddDate(0, 0, 2))
	if _, err := svc.MarkDone(context.Background(), "user-1", doneID); err != nil {
		t.Fatalf("MarkDone() error: %v", err)
	}

	dash, err := svc.Dashboard(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Dashboard() error: %v", err)
	}

	if dash.Counts.DueToday != 1 || dash.Counts.Overdue != 1 ||
		dash.Counts.Done != 1 {
		t.Fatalf("counts = %+v", dash.Counts)
	}
	if len(dash.DueToday) != 1 || len(dash.Overdue) != 1 {
		t.Fatalf("due_today=%d overdue=%d, want 1 and 1",
			len(dash.DueToday), len(dash.Overdue))
	}
	if dash.ClientCount != 1 {
		t.Fatalf("client_count = %d, want 1", dash.ClientCount)
	}
}

func TestDeleteIsUnconditional(t *testing.T) {
	t.Parallel()
	svc, repo := newTestService(t)

	created, err := svc.Create(context.Background(), "user-1", CreateReminderRequest{
		ClientID: "client-1",
		Kind:     KindFollowup,
		Channel:  ChannelWhatsApp,
		RemindAt: testNow,
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if _, err := svc.MarkDone(context.Background(), "user-1", created.ID); err != nil {
		t.Fatalf("MarkDone() error: %v", err)
	}

	if err := svc.Delete(context.Background(), "user-1", created.ID); err != nil {
		t.Fatalf("Delete() on done reminder: %v", err)
	}
	if _, ok := repo.reminders[created.ID]; ok {
		t.Fatal("reminder still stored after delete")
	}
}
