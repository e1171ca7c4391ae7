package reservations

import "time"

// Reservation statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

type Reservation struct {
	ID              int64     `json:"id" db:"id"`
	Code            string    `json:"code" db:"code"`
	CustomerID      int64     `json:"customer_id" db:"customer_id"`
	PropertyID      int64     `json:"property_id" db:"property_id"`
	CheckIn         time.Time `json:"check_in" db:"check_in"`
	CheckOut        time.Time `json:"check_out" db:"check_out"`
	Status          string    `json:"status" db:"status"`
	TotalAmount     float64   `json:"total_amount" db:"total_amount"`
	AssignedStaffID *int64    `json:"assigned_staff_id,omitempty" db:"assigned_staff_id"`
	Notes           *string   `json:"notes,omitempty" db:"notes"`
	CreatedBy       int64     `json:"created_by" db:"created_by"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// allowedTransitions keys a status to the statuses it may move to.
var allowedTransitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether a reservation may move from one status to
// another. Completed and cancelled are terminal.
func CanTransition(from, to string) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
