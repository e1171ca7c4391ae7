package customers

import (
	"context"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/meridian-crm/meridian/internal/authz"
)

var nameCaser = cases.Title(language.Und, cases.NoLower)

type Service struct {
	repo   Repository
	scopes *authz.ScopePolicy
}

func NewService(repo Repository, scopes *authz.ScopePolicy) *Service {
	return &Service{repo: repo, scopes: scopes}
}

// Create records a new customer. The coarse permission check has already
// happened at the gate; creation is not row-scoped because the row does
// not exist yet.
func (s *Service) Create(ctx context.Context, p authz.Principal, req CreateCustomerRequest) (*Customer, error) {
	code, err := s.repo.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate customer code: %w", err)
	}

	customer := Customer{
		Code:            code,
		Name:            nameCaser.String(req.Name),
		Email:           req.Email,
		Phone:           req.Phone,
		Country:         req.Country,
		AssignedStaffID: req.AssignedStaffID,
		IsActive:        true,
		Notes:           req.Notes,
		CreatedBy:       p.ID,
	}

	id, err := s.repo.Create(ctx, customer)
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	customer.ID = id
	return &customer, nil
}

func (s *Service) Get(ctx context.Context, p authz.Principal, id int64) (*Customer, error) {
	scope := s.scopes.Filter(authz.ModuleCustomers, p)
	return s.repo.Get(ctx, id, scope)
}

func (s *Service) List(ctx context.Context, p authz.Principal, req ListCustomersRequest) ([]Customer, int, error) {
	scope := s.scopes.Filter(authz.ModuleCustomers, p)
	return s.repo.List(ctx, req, scope)
}

// Update mutates a customer the principal can see. A row excluded by the
// scope predicate reports ErrNotFound, same as an absent row.
func (s *Service) Update(ctx context.Context, p authz.Principal, id int64, req UpdateCustomerRequest) (*Customer, error) {
	scope := s.scopes.Filter(authz.ModuleCustomers, p)

	updates := make(map[string]any)
	if req.Name != nil {
		updates["name"] = nameCaser.String(*req.Name)
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Country != nil {
		updates["country"] = *req.Country
	}
	if req.AssignedStaffID != nil {
		updates["assigned_staff_id"] = *req.AssignedStaffID
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates, scope); err != nil {
			return nil, fmt.Errorf("update customer: %w", err)
		}
	}
	return s.repo.Get(ctx, id, scope)
}

func (s *Service) Delete(ctx context.Context, p authz.Principal, id int64) error {
	scope := s.scopes.Filter(authz.ModuleCustomers, p)
	return s.repo.Delete(ctx, id, scope)
}
