// AngelaMos | 2026
// dto.go

package client

import (
	"time"
)

type CreateClientRequest struct {
	Name    string  `json:"name"    validate:"required,max=100"`
	Contact string  `json:"contact" validate:"required,max=100"`
	Notes   *string `json:"notes"   validate:"omitempty,max=500"`
}

type UpdateClientRequest struct {
	Name    string  `json:"name"    validate:"required,max=100"`
	Contact string  `json:"contact" validate:"required,max=100"`
	Notes   *string `json:"notes"   validate:"omitempty,max=500"`
}

type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	IsEmail   bool      `json:"is_email"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListClientsParams struct {
	Search   string
	Page     int
	PageSize int
}

func (p *ListClientsParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 50
	}
}

func (p *ListClientsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToClientResponse(c *Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Contact:   c.Contact,
		IsEmail:   IsEmail(c.Contact),
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func ToClientResponseList(clients []Client) []ClientResponse {
	out := make([]ClientResponse, 0, len(clients))
	for i := range clients {
		out = append(out, ToClientResponse(&clients[i]))
	}
	return out
}
