// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

// RefreshToken rows store only the SHA-256 hash of the opaque token.
// FamilyID groups a rotation chain so reuse of a revoked token can
// revoke the whole family.
type RefreshToken struct {
	ID         string     `db:"id"`
	UserID     string     `db:"user_id"`
	TokenHash  string     `db:"token_hash"`
	FamilyID   string     `db:"family_id"`
	ExpiresAt  time.Time  `db:"expires_at"`
	CreatedAt  time.Time  `db:"created_at"`
	RevokedAt  *time.Time `db:"revoked_at"`
	ReplacedBy *string    `db:"replaced_by"`
	UserAgent  *string    `db:"user_agent"`
	IPAddress  *string    `db:"ip_address"`
}

func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

func (t *RefreshToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

func (t *RefreshToken) IsValid() bool {
	return !t.IsRevoked() && !t.IsExpired()
}

// ProfileInfo is the slice of the profiles table the auth flows need.
// The profile package adapts its own entity into this shape, which
// keeps auth free of an import cycle.
type ProfileInfo struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	Plan         string
	TokenVersion int
}

type SessionInfo struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	UserAgent *string    `json:"user_agent,omitempty"`
	IPAddress *string    `json:"ip_address,omitempty"`
	Current   bool       `json:"current"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}
