package customers

type CreateCustomerRequest struct {
	Name            string  `json:"name" validate:"required,max=200"`
	Email           *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone           *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Country         string  `json:"country" validate:"required,len=2"`
	AssignedStaffID *int64  `json:"assigned_staff_id,omitempty" validate:"omitempty,gt=0"`
	Notes           *string `json:"notes,omitempty"`
}

type UpdateCustomerRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Email           *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone           *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Country         *string `json:"country,omitempty" validate:"omitempty,len=2"`
	AssignedStaffID *int64  `json:"assigned_staff_id,omitempty" validate:"omitempty,gt=0"`
	IsActive        *bool   `json:"is_active,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

type ListCustomersRequest struct {
	IsActive *bool   `json:"is_active,omitempty"`
	Search   *string `json:"search,omitempty"`
	Limit    int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int     `json:"offset" validate:"gte=0"`
}
