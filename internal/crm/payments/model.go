package payments

import "time"

// Payment statuses.
const (
	StatusPending  = "pending"
	StatusSettled  = "settled"
	StatusRefunded = "refunded"
	StatusFailed   = "failed"
)

type Payment struct {
	ID            int64      `json:"id" db:"id"`
	Reference     string     `json:"reference" db:"reference"`
	ReservationID int64      `json:"reservation_id" db:"reservation_id"`
	CustomerID    int64      `json:"customer_id" db:"customer_id"`
	Amount        float64    `json:"amount" db:"amount"`
	Currency      string     `json:"currency" db:"currency"`
	Method        string     `json:"method" db:"method"`
	Status        string     `json:"status" db:"status"`
	PaidAt        *time.Time `json:"paid_at,omitempty" db:"paid_at"`
	CreatedBy     int64      `json:"created_by" db:"created_by"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

type CreatePaymentRequest struct {
	ReservationID int64   `json:"reservation_id" validate:"required,gt=0"`
	CustomerID    int64   `json:"customer_id" validate:"required,gt=0"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Currency      string  `json:"currency" validate:"required,len=3"`
	Method        string  `json:"method" validate:"required,oneof=card transfer cash"`
}

type SettlePaymentRequest struct {
	Status string `json:"status" validate:"required,oneof=settled refunded failed"`
}

type ListPaymentsRequest struct {
	Status        *string `json:"status,omitempty"`
	ReservationID *int64  `json:"reservation_id,omitempty"`
	Limit         int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset        int     `json:"offset" validate:"gte=0"`
}
