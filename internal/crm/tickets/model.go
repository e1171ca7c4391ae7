package tickets

import "time"

// Ticket statuses and priorities.
const (
	StatusOpen     = "open"
	StatusPending  = "pending"
	StatusResolved = "resolved"
	StatusClosed   = "closed"

	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

type Ticket struct {
	ID         int64     `json:"id" db:"id"`
	Number     string    `json:"number" db:"number"`
	Subject    string    `json:"subject" db:"subject"`
	Body       string    `json:"body" db:"body"`
	CustomerID int64     `json:"customer_id" db:"customer_id"`
	AssignedTo *int64    `json:"assigned_to,omitempty" db:"assigned_to"`
	Priority   string    `json:"priority" db:"priority"`
	Status     string    `json:"status" db:"status"`
	CreatedBy  int64     `json:"created_by" db:"created_by"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

type CreateTicketRequest struct {
	Subject    string `json:"subject" validate:"required,max=200"`
	Body       string `json:"body" validate:"required"`
	CustomerID int64  `json:"customer_id" validate:"required,gt=0"`
	Priority   string `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
}

type UpdateTicketRequest struct {
	Subject    *string `json:"subject,omitempty" validate:"omitempty,max=200"`
	Body       *string `json:"body,omitempty"`
	AssignedTo *int64  `json:"assigned_to,omitempty" validate:"omitempty,gt=0"`
	Priority   *string `json:"priority,omitempty" validate:"omitempty,oneof=low normal high urgent"`
	Status     *string `json:"status,omitempty" validate:"omitempty,oneof=open pending resolved closed"`
}

type ListTicketsRequest struct {
	Status   *string `json:"status,omitempty"`
	Priority *string `json:"priority,omitempty"`
	Limit    int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int     `json:"offset" validate:"gte=0"`
}
