// AngelaMos | 2026
// entity.go

package profile

import (
	"time"
)

type Profile struct {
	ID           string     `db:"id"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	Role         string     `db:"role"`
	IsActive     bool       `db:"is_active"`
	Plan         *string    `db:"plan"`
	ActivatedAt  *time.Time `db:"activated_at"`
	TokenVersion int        `db:"token_version"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// IsEntitled reports whether the profile may enter the paid application
// area. Activation history (ActivatedAt) is deliberately not consulted:
// a deactivated account keeps its history but loses access.
func (p *Profile) IsEntitled() bool {
	return p.IsActive
}

func (p *Profile) PlanID() string {
	if p.Plan == nil {
		return ""
	}
	return *p.Plan
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	PlanUS = "US"
	PlanEA = "EA"
)

func ValidPlan(plan string) bool {
	return plan == PlanUS || plan == PlanEA
}
