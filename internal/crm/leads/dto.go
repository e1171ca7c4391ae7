package leads

type CreateLeadRequest struct {
	Name       string  `json:"name" validate:"required,max=200"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Source     string  `json:"source" validate:"required,max=50"`
	AgentID    *int64  `json:"agent_id,omitempty" validate:"omitempty,gt=0"`
	PropertyID *int64  `json:"property_id,omitempty" validate:"omitempty,gt=0"`
	Notes      *string `json:"notes,omitempty"`
}

type UpdateLeadRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Status     *string `json:"status,omitempty" validate:"omitempty,max=20"`
	PropertyID *int64  `json:"property_id,omitempty" validate:"omitempty,gt=0"`
	Notes      *string `json:"notes,omitempty"`
}

type AssignLeadRequest struct {
	AgentID int64 `json:"agent_id" validate:"required,gt=0"`
}

type ListLeadsRequest struct {
	Status  *string `json:"status,omitempty"`
	Source  *string `json:"source,omitempty"`
	AgentID *int64  `json:"agent_id,omitempty"`
	Limit   int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset  int     `json:"offset" validate:"gte=0"`
}
