package trips

import "time"

// Trip statuses.
const (
	StatusPlanned   = "planned"
	StatusConfirmed = "confirmed"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Trip is an itinerary sold to a customer, optionally anchored to one of
// the tenant's properties.
type Trip struct {
	ID          int64     `json:"id" db:"id"`
	Code        string    `json:"code" db:"code"`
	CustomerID  int64     `json:"customer_id" db:"customer_id"`
	PropertyID  *int64    `json:"property_id,omitempty" db:"property_id"`
	Destination string    `json:"destination" db:"destination"`
	StartDate   time.Time `json:"start_date" db:"start_date"`
	EndDate     time.Time `json:"end_date" db:"end_date"`
	Status      string    `json:"status" db:"status"`
	TotalPrice  float64   `json:"total_price" db:"total_price"`
	Notes       *string   `json:"notes,omitempty" db:"notes"`
	CreatedBy   int64     `json:"created_by" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

var allowedTransitions = map[string][]string{
	StatusPlanned:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusOngoing, StatusCancelled},
	StatusOngoing:   {StatusCompleted},
}

// CanTransition reports whether a trip may move from one status to another.
// Completed and cancelled are terminal.
func CanTransition(from, to string) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type CreateTripRequest struct {
	CustomerID  int64     `json:"customer_id" validate:"required,gt=0"`
	PropertyID  *int64    `json:"property_id,omitempty" validate:"omitempty,gt=0"`
	Destination string    `json:"destination" validate:"required,max=200"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	TotalPrice  float64   `json:"total_price" validate:"gte=0"`
	Notes       *string   `json:"notes,omitempty"`
}

type UpdateTripRequest struct {
	PropertyID  *int64     `json:"property_id,omitempty" validate:"omitempty,gt=0"`
	Destination *string    `json:"destination,omitempty" validate:"omitempty,max=200"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	TotalPrice  *float64   `json:"total_price,omitempty" validate:"omitempty,gte=0"`
	Notes       *string    `json:"notes,omitempty"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=planned confirmed ongoing completed cancelled"`
}

type ListTripsRequest struct {
	Status     *string `json:"status,omitempty"`
	CustomerID *int64  `json:"customer_id,omitempty"`
	Limit      int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset     int     `json:"offset" validate:"gte=0"`
}
