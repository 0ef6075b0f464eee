// AngelaMos | 2026
// entity.go

package reminder

import (
	"time"
)

const (
	KindFollowup = "followup"
	KindPayment  = "payment"

	ChannelWhatsApp = "whatsapp"
	ChannelEmail    = "email"

	StatusPending = "pending"
	StatusDone    = "done"
)

type Reminder struct {
	ID        string     `db:"id"`
	UserID    string     `db:"user_id"`
	ClientID  string     `db:"client_id"`
	Kind      string     `db:"kind"`
	Channel   string     `db:"channel"`
	Message   string     `db:"message"`
	Status    string     `db:"status"`
	RemindAt  time.Time  `db:"remind_at"`
	DoneAt    *time.Time `db:"done_at"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

func (r *Reminder) IsDone() bool {
	return r.Status == StatusDone
}
