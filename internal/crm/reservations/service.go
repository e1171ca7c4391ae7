package reservations

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

func (s *Service) Create(ctx context.Context, p authz.Principal, req CreateReservationRequest) (*Reservation, error) {
	code, err := s.repo.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate reservation code: %w", err)
	}

	res := Reservation{
		Code:            code,
		CustomerID:      req.CustomerID,
		PropertyID:      req.PropertyID,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		Status:          StatusPending,
		TotalAmount:     req.TotalAmount,
		AssignedStaffID: req.AssignedStaffID,
		Notes:           req.Notes,
		CreatedBy:       p.ID,
	}

	id, err := s.repo.Create(ctx, res)
	if err != nil {
		return nil, fmt.Errorf("create reservation: %w", err)
	}
	res.ID = id
	return &res, nil
}

func (s *Service) Get(ctx context.Context, p authz.Principal, id int64) (*Reservation, error) {
	scope := s.scopes.Filter(authz.ModuleReservations, p)
	return s.repo.Get(ctx, id, scope)
}

func (s *Service) List(ctx context.Context, p authz.Principal, req ListReservationsRequest) ([]Reservation, int, error) {
	scope := s.scopes.Filter(authz.ModuleReservations, p)
	return s.repo.List(ctx, req, scope)
}

func (s *Service) Update(ctx context.Context, p authz.Principal, id int64, req UpdateReservationRequest) (*Reservation, error) {
	scope := s.scopes.Filter(authz.ModuleReservations, p)

	updates := make(map[string]any)
	if req.CheckIn != nil {
		updates["check_in"] = *req.CheckIn
	}
	if req.CheckOut != nil {
		updates["check_out"] = *req.CheckOut
	}
	if req.TotalAmount != nil {
		updates["total_amount"] = *req.TotalAmount
	}
	if req.AssignedStaffID != nil {
		updates["assigned_staff_id"] = *req.AssignedStaffID
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates, scope); err != nil {
			return nil, fmt.Errorf("update reservation: %w", err)
		}
	}
	return s.repo.Get(ctx, id, scope)
}

// SetStatus moves a reservation through its lifecycle. The target row must
// pass the caller's scope predicate; a scoped-out row reports ErrNotFound,
// same as an absent one.
func (s *Service) SetStatus(ctx context.Context, p authz.Principal, id int64, status string) (*Reservation, error) {
	scope := s.scopes.Filter(authz.ModuleReservations, p)

	current, err := s.repo.Get(ctx, id, scope)
	if err != nil {
		return nil, err
	}
	if !CanTransition(current.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, status)
	}

	if err := s.repo.Update(ctx, id, map[string]any{"status": status}, scope); err != nil {
		return nil, fmt.Errorf("set reservation status: %w", err)
	}
	return s.repo.Get(ctx, id, scope)
}

func (s *Service) Delete(ctx context.Context, p authz.Principal, id int64) error {
	scope := s.scopes.Filter(authz.ModuleReservations, p)
	return s.repo.Delete(ctx, id, scope)
}
