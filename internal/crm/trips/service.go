package trips

import (
	"context"
	"fmt"

	"github.com/meridian-crm/meridian/internal/authz"
)

type Service struct {
	repo   Repository
	scopes *authz.ScopePolicy
}

func NewService(repo Repository, scopes *authz.ScopePolicy) *Service {
	return &Service{repo: repo, scopes: scopes}
}

func (s *Service) Create(ctx context.Context, p authz.Principal, req CreateTripRequest) (*Trip, error) {
	code, err := s.repo.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate trip code: %w", err)
	}

	trip := Trip{
		Code:        code,
		CustomerID:  req.CustomerID,
		PropertyID:  req.PropertyID,
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      StatusPlanned,
		TotalPrice:  req.TotalPrice,
		Notes:       req.Notes,
		CreatedBy:   p.ID,
	}

	id, err := s.repo.Create(ctx, trip)
	if err != nil {
		return nil, fmt.Errorf("create trip: %w", err)
	}
	trip.ID = id
	return &trip, nil
}

func (s *Service) Get(ctx context.Context, p authz.Principal, id int64) (*Trip, error) {
	scope := s.scopes.Filter(authz.ModuleTrips, p)
	return s.repo.Get(ctx, id, scope)
}

func (s *Service) List(ctx context.Context, p authz.Principal, req ListTripsRequest) ([]Trip, int, error) {
	scope := s.scopes.Filter(authz.ModuleTrips, p)
	return s.repo.List(ctx, req, scope)
}

func (s *Service) Update(ctx context.Context, p authz.Principal, id int64, req UpdateTripRequest) (*Trip, error) {
	scope := s.scopes.Filter(authz.ModuleTrips, p)

	updates := make(map[string]any)
	if req.PropertyID != nil {
		updates["property_id"] = *req.PropertyID
	}
	if req.Destination != nil {
		updates["destination"] = *req.Destination
	}
	if req.StartDate != nil {
		updates["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		updates["end_date"] = *req.EndDate
	}
	if req.TotalPrice != nil {
		updates["total_price"] = *req.TotalPrice
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates, scope); err != nil {
			return nil, fmt.Errorf("update trip: %w", err)
		}
	}
	return s.repo.Get(ctx, id, scope)
}

// SetStatus moves a trip through its lifecycle. The target row must pass
// the caller's scope predicate; a scoped-out row reports ErrNotFound, same
// as an absent one.
func (s *Service) SetStatus(ctx context.Context, p authz.Principal, id int64, status string) (*Trip, error) {
	scope := s.scopes.Filter(authz.ModuleTrips, p)

	current, err := s.repo.Get(ctx, id, scope)
	if err != nil {
		return nil, err
	}
	if !CanTransition(current.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, status)
	}

	if err := s.repo.Update(ctx, id, map[string]any{"status": status}, scope); err != nil {
		return nil, fmt.Errorf("set trip status: %w", err)
	}
	return s.repo.Get(ctx, id, scope)
}

func (s *Service) Delete(ctx context.Context, p authz.Principal, id int64) error {
	scope := s.scopes.Filter(authz.ModuleTrips, p)
	return s.repo.Delete(ctx, id, scope)
}
