package reservations

import "time"

type CreateReservationRequest struct {
	CustomerID      int64     `json:"customer_id" validate:"required,gt=0"`
	PropertyID      int64     `json:"property_id" validate:"required,gt=0"`
	CheckIn         time.Time `json:"check_in" validate:"required"`
	CheckOut        time.Time `json:"check_out" validate:"required,gtfield=CheckIn"`
	TotalAmount     float64   `json:"total_amount" validate:"gte=0"`
	AssignedStaffID *int64    `json:"assigned_staff_id,omitempty" validate:"omitempty,gt=0"`
	Notes           *string   `json:"notes,omitempty"`
}

type UpdateReservationRequest struct {
	CheckIn         *time.Time `json:"check_in,omitempty"`
	CheckOut        *time.Time `json:"check_out,omitempty"`
	TotalAmount     *float64   `json:"total_amount,omitempty" validate:"omitempty,gte=0"`
	AssignedStaffID *int64     `json:"assigned_staff_id,omitempty" validate:"omitempty,gt=0"`
	Notes           *string    `json:"notes,omitempty"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}

type ListReservationsRequest struct {
	Status     *string    `json:"status,omitempty"`
	PropertyID *int64     `json:"property_id,omitempty"`
	From       *time.Time `json:"from,omitempty"`
	To         *time.Time `json:"to,omitempty"`
	Limit      int        `json:"limit" validate:"gte=0,lte=1000"`
	Offset     int        `json:"offset" validate:"gte=0"`
}
