package properties

import "time"

type Property struct {
	ID          int64     `json:"id" db:"id"`
	Code        string    `json:"code" db:"code"`
	Name        string    `json:"name" db:"name"`
	Kind        string    `json:"kind" db:"kind"`
	City        string    `json:"city" db:"city"`
	Country     string    `json:"country" db:"country"`
	Capacity    int       `json:"capacity" db:"capacity"`
	NightlyRate float64   `json:"nightly_rate" db:"nightly_rate"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type CreatePropertyRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Kind        string  `json:"kind" validate:"required,oneof=villa apartment hotel resort"`
	City        string  `json:"city" validate:"required,max=100"`
	Country     string  `json:"country" validate:"required,len=2"`
	Capacity    int     `json:"capacity" validate:"required,gt=0"`
	NightlyRate float64 `json:"nightly_rate" validate:"gte=0"`
}

type UpdatePropertyRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	City        *string  `json:"city,omitempty" validate:"omitempty,max=100"`
	Country     *string  `json:"country,omitempty" validate:"omitempty,len=2"`
	Capacity    *int     `json:"capacity,omitempty" validate:"omitempty,gt=0"`
	NightlyRate *float64 `json:"nightly_rate,omitempty" validate:"omitempty,gte=0"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

type ListPropertiesRequest struct {
	Kind     *string `json:"kind,omitempty"`
	City     *string `json:"city,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	Limit    int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int     `json:"offset" validate:"gte=0"`
}
