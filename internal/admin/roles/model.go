package roles

import "time"

// Role is a named permission bundle. The grants attached to a role are
// what the permission matrix is built from.
type Role struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type CreateRoleRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	Description string `json:"description" validate:"max=500"`
}

type UpdateRoleRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=50"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// GrantInput is one (module, action) pair to attach to a role.
type GrantInput struct {
	Module string `json:"module" validate:"required"`
	Action string `json:"action" validate:"required"`
}

type ReplaceGrantsRequest struct {
	Grants []GrantInput `json:"grants" validate:"required,dive"`
}
