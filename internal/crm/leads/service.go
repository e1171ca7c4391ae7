package leads

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

func (s *Service) Create(ctx context.Context, p authz.Principal, req CreateLeadRequest) (*Lead, error) {
	lead := Lead{
		Name:       nameCaser.String(req.Name),
		Email:      req.Email,
		Phone:      req.Phone,
		Source:     req.Source,
		Status:     StatusNew,
		AgentID:    req.AgentID,
		PropertyID: req.PropertyID,
		Notes:      req.Notes,
		CreatedBy:  p.ID,
	}

	id, err := s.repo.Create(ctx, lead)
	if err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}
	lead.ID = id
	return &lead, nil
}

func (s *Service) Get(ctx context.Context, p authz.Principal, id int64) (*Lead, error) {
	scope := s.scopes.Filter(authz.ModuleLeads, p)
	return s.repo.Get(ctx, id, scope)
}

func (s *Service) List(ctx context.Context, p authz.Principal, req ListLeadsRequest) ([]Lead, int, error) {
	scope := s.scopes.Filter(authz.ModuleLeads, p)
	return s.repo.List(ctx, req, scope)
}

func (s *Service) Update(ctx context.Context, p authz.Principal, id int64, req UpdateLeadRequest) (*Lead, error) {
	scope := s.scopes.Filter(authz.ModuleLeads, p)

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
	if req.Status != nil {
		if !ValidStatus(*req.Status) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *req.Status)
		}
		updates["status"] = *req.Status
	}
	if req.PropertyID != nil {
		updates["property_id"] = *req.PropertyID
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates, scope); err != nil {
			return nil, fmt.Errorf("update lead: %w", err)
		}
	}
	return s.repo.Get(ctx, id, scope)
}

// Assign reassigns a lead to another agent. The target row must still pass
// the caller's own scope predicate first: an agent cannot hand off a lead
// they cannot see.
func (s *Service) Assign(ctx context.Context, p authz.Principal, id int64, agentID int64) (*Lead, error) {
	scope := s.scopes.Filter(authz.ModuleLeads, p)
	if err := s.repo.Update(ctx, id, map[string]any{"agent_id": agentID}, scope); err != nil {
		return nil, fmt.Errorf("assign lead: %w", err)
	}
	// Reassignment may move the row outside the caller's scope; read it
	// back without narrowing so the handler can return the updated lead.
	return s.repo.Get(ctx, id, authz.Unrestricted())
}

func (s *Service) Delete(ctx context.Context, p authz.Principal, id int64) error {
	scope := s.scopes.Filter(authz.ModuleLeads, p)
	return s.repo.Delete(ctx, id, scope)
}
