// AngelaMos | 2026
// dto.go

package profile

import (
	"time"
)

type SetActiveRequest struct {
	Active bool `json:"active"`
}

type SetPlanRequest struct {
	Plan string `json:"plan" validate:"required,oneof=US EA"`
}

type ProfileResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	Plan        *string    `json:"plan"`
	ActivatedAt *time.Time `json:"activated_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

type ListProfilesParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Search   string `json:"search"`
	Active   string `json:"active"`
}

func (p *ListProfilesParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListProfilesParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToProfileResponse(p *Profile) ProfileResponse {
	return ProfileResponse{
		ID:          p.ID,
		Email:       p.Email,
		Role:        p.Role,
		IsActive:    p.IsActive,
		Plan:        p.Plan,
		ActivatedAt: p.ActivatedAt,
		CreatedAt:   p.CreatedAt,
	}
}

func ToProfileResponseList(profiles []Profile) []ProfileResponse {
	responses := make([]ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		responses = append(responses, ToProfileResponse(&p))
	}
	return responses
}
