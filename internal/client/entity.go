// AngelaMos | 2026
// entity.go

package client

import (
	"strings"
	"time"
)

type Client struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Name      string    `db:"name"`
	Contact   string    `db:"contact"`
	Notes     *string   `db:"notes"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsEmail decides the outreach channel for a contact. Anything with an
// @ is treated as an email address, everything else as a phone number.
func IsEmail(contact string) bool {
	return strings.Contains(contact, "@")
}
