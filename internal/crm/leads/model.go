package leads

import "time"

// Lead lifecycle statuses.
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusQualified = "qualified"
	StatusWon       = "won"
	StatusLost      = "lost"
)

type Lead struct {
	ID         int64     `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Email      *string   `json:"email,omitempty" db:"email"`
	Phone      *string   `json:"phone,omitempty" db:"phone"`
	Source     string    `json:"source" db:"source"`
	Status     string    `json:"status" db:"status"`
	AgentID    *int64    `json:"agent_id,omitempty" db:"agent_id"`
	PropertyID *int64    `json:"property_id,omitempty" db:"property_id"`
	Notes      *string   `json:"notes,omitempty" db:"notes"`
	CreatedBy  int64     `json:"created_by" db:"created_by"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// ValidStatus reports whether s is a known lead status.
func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusWon, StatusLost:
		return true
	}
	return false
}
