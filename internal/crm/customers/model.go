package customers

import "time"

type Customer struct {
	ID              int64     `json:"id" db:"id"`
	Code            string    `json:"code" db:"code"`
	Name            string    `json:"name" db:"name"`
	Email           *string   `json:"email,omitempty" db:"email"`
	Phone           *string   `json:"phone,omitempty" db:"phone"`
	Country         string    `json:"country" db:"country"`
	AssignedStaffID *int64    `json:"assigned_staff_id,omitempty" db:"assigned_staff_id"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	Notes           *string   `json:"notes,omitempty" db:"notes"`
	CreatedBy       int64     `json:"created_by" db:"created_by"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}
