package properties

import (
	"context"
	"fmt"
	"strings"
)

// Service manages the property inventory. The inventory is shared across
// the tenant, so unlike the customer-facing modules there is no scope
// predicate here; the gate's permission check is the whole story.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req CreatePropertyRequest) (*Property, error) {
	code, err := s.repo.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate property code: %w", err)
	}

	property := Property{
		Code:        code,
		Name:        req.Name,
		Kind:        strings.ToLower(req.Kind),
		City:        req.City,
		Country:     strings.ToUpper(req.Country),
		Capacity:    req.Capacity,
		NightlyRate: req.NightlyRate,
		IsActive:    true,
	}

	id, err := s.repo.Create(ctx, property)
	if err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}
	property.ID = id
	return &property, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Property, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListPropertiesRequest) ([]Property, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdatePropertyRequest) (*Property, error) {
	updates := make(map[string]any)
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.Country != nil {
		updates["country"] = strings.ToUpper(*req.Country)
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}
	if req.NightlyRate != nil {
		updates["nightly_rate"] = *req.NightlyRate
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("update property: %w", err)
		}
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
