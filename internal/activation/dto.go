// AngelaMos | 2026
// dto.go

package activation

import (
	"time"
)

type SubmitRequest struct {
	Plan      string  `json:"plan"      validate:"required,oneof=US EA"`
	Method    string  `json:"method"    validate:"required,max=100"`
	Reference string  `json:"reference" validate:"required,max=255"`
	Amount    string  `json:"amount"    validate:"required,max=100"`
	Note      *string `json:"note"      validate:"omitempty,max=2000"`
}

type ResolveRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
}

type RequestResponse struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	PlanRequested string     `json:"plan_requested"`
	Method        string     `json:"method"`
	Reference     string     `json:"reference"`
	Amount        string     `json:"amount"`
	Note          *string    `json:"note,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy    *string    `json:"reviewed_by,omitempty"`
	UserEmail     string     `json:"user_email,omitempty"`
}

type ListParams struct {
	Status   string
	Page     int
	PageSize int
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToRequestResponse(r *ActivationRequest) RequestResponse {
	return RequestResponse{
		ID:            r.ID,
		UserID:        r.UserID,
		PlanRequested: r.PlanRequested,
		Method:        r.Method,
		Reference:     r.Reference,
		Amount:        r.Amount,
		Note:          r.Note,
		Status:        r.Status,
		CreatedAt:     r.CreatedAt,
		ReviewedAt:    r.ReviewedAt,
		ReviewedBy:    r.ReviewedBy,
	}
}

func ToRequestResponseList(requests []ActivationRequest) []RequestResponse {
	out := make([]RequestResponse, 0, len(requests))
	for i := range requests {
		out = append(out, ToRequestResponse(&requests[i]))
	}
	return out
}
