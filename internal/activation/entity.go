// AngelaMos | 2026
// entity.go

package activation

import (
	"time"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ActivationRequest is one "I've paid, please unlock me" submission.
// Amount stays a free-text string: users type whatever their payment
// app showed them and admins eyeball it against the plan price.
type ActivationRequest struct {
	ID            string     `db:"id"`
	UserID        string     `db:"user_id"`
	PlanRequested string     `db:"plan_requested"`
	Method        string     `db:"method"`
	Reference     string     `db:"reference"`
	Amount        string     `db:"amount"`
	Note          *string    `db:"note"`
	Status        string     `db:"status"`
	CreatedAt     time.Time  `db:"created_at"`
	ReviewedAt    *time.Time `db:"reviewed_at"`
	ReviewedBy    *string    `db:"reviewed_by"`
}

func (r *ActivationRequest) IsPending() bool {
	return r.Status == StatusPending
}

type PaymentMethod struct {
	Name        string `json:"name"`
	Instruction string `json:"instruction"`
}

type Plan struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Price          int             `json:"price"`
	Currency       string          `json:"currency"`
	Description    string          `json:"description"`
	PaymentMethods []PaymentMethod `json:"payment_methods"`
}

// Plans is the offline-payment catalog. Order matters for display, so
// it is a slice rather than a map.
var Plans = []Plan{
	{
		ID:          "US",
		Name:        "US Plan",
		Price:       29,
		Currency:    "USD",
		Description: "Best for freelancers & service businesses in the US",
		PaymentMethods: []PaymentMethod{
			{Name: "PayPal", Instruction: "Send to: payments@payping.app"},
			{Name: "Zelle", Instruction: "Send to: payments@payping.app"},
			{Name: "CashApp", Instruction: "Send to: $PayPingApp"},
			{Name: "Venmo", Instruction: "Send to: @PayPingApp"},
		},
	},
	{
		ID:          "EA",
		Name:        "East Africa Plan",
		Price:       10,
		Currency:    "USD",
		Description: "Built for WhatsApp-first businesses",
		PaymentMethods: []PaymentMethod{
			{Name: "M-Pesa", Instruction: "Paybill: 123456, Account: PayPing"},
			{Name: "Airtel Money", Instruction: "Send to: 0700123456"},
			{Name: "Tigo Pesa", Instruction: "Send to: 0700123456"},
		},
	},
}

func PlanByID(id string) (Plan, bool) {
	for _, p := range Plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// ValidMethod reports whether the named payment method belongs to the
// plan's catalog.
func ValidMethod(planID, method string) bool {
	plan, ok := PlanByID(planID)
	if !ok {
		return false
	}
	for _, m := range plan.PaymentMethods {
		if m.Name == method {
			return true
		}
	}
	return false
}
