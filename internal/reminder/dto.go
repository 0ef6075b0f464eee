// AngelaMos | 2026
// dto.go

package reminder

import (
	"time"
)

type CreateReminderRequest struct {
	ClientID string    `json:"client_id" validate:"required,uuid"`
	Kind     string    `json:"kind"      validate:"required,oneof=followup payment"`
	Channel  string    `json:"channel"   validate:"required,oneof=whatsapp email"`
	Message  string    `json:"message"   validate:"omitempty,max=1000"`
	RemindAt time.Time `json:"remind_at" validate:"required"`
}

type UpdateReminderRequest struct {
	ClientID *string    `json:"client_id" validate:"omitempty,uuid"`
	Kind     *string    `json:"kind"      validate:"omitempty,oneof=followup payment"`
	Channel  *string    `json:"channel"   validate:"omitempty,oneof=whatsapp email"`
	Message  *string    `json:"message"   validate:"omitempty,max=1000"`
	RemindAt *time.Time `json:"remind_at"`
}

type ReminderResponse struct {
	ID         string     `json:"id"`
	ClientID   string     `json:"client_id"`
	ClientName string     `json:"client_name,omitempty"`
	Kind       string     `json:"kind"`
	Channel    string     `json:"channel"`
	Message    string     `json:"message"`
	Status     string     `json:"status"`
	Bucket     Bucket     `json:"bucket"`
	RemindAt   time.Time  `json:"remind_at"`
	DoneAt     *time.Time `json:"done_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type DashboardResponse struct {
	DueToday    []ReminderResponse `json:"due_today"`
	Overdue     []ReminderResponse `json:"overdue"`
	Counts      DashboardCounts    `json:"counts"`
	ClientCount int                `json:"client_count"`
}

type DashboardCounts struct {
	DueToday    int `json:"due_today"`
	DueThisWeek int `json:"due_this_week"`
	Overdue     int `json:"overdue"`
	Done        int `json:"done"`
	Upcoming    int `json:"upcoming"`
}

func toReminderResponse(now time.Time, r *ReminderWithClient) ReminderResponse {
	return ReminderResponse{
		ID:         r.ID,
		ClientID:   r.ClientID,
		ClientName: r.ClientName,
		Kind:       r.Kind,
		Channel:    r.Channel,
		Message:    r.Message,
		Status:     r.Status,
		Bucket:     Classify(now, &r.Reminder),
		RemindAt:   r.RemindAt,
		DoneAt:     r.DoneAt,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func toReminderResponseList(
	now time.Time,
	reminders []ReminderWithClient,
) []ReminderResponse {
	out := make([]ReminderResponse, 0, len(reminders))
	for i := range reminders {
		out = append(out, toReminderResponse(now, &reminders[i]))
	}
	return out
}
