package tickets

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/meridian-crm/meridian/internal/authz"
)

type Service struct {
	repo   Repository
	scopes *authz.ScopePolicy
}

func NewService(repo Repository, scopes *authz.ScopePolicy) *Service {
	return &Service{repo: repo, scopes: scopes}
}

func (s *Service) Create(ctx context.Context, p authz.Principal, req CreateTicketRequest) (*Ticket, error) {
	priority := req.Priority
	if priority == "" {
		priority = PriorityNormal
	}

	ticket := Ticket{
		Number:     "TKT-" + uuid.NewString()[:8],
		Subject:    req.Subject,
		Body:       req.Body,
		CustomerID: req.CustomerID,
		Priority:   priority,
		Status:     StatusOpen,
		CreatedBy:  p.ID,
	}

	id, err := s.repo.Create(ctx, ticket)
	if err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	ticket.ID = id
	return &ticket, nil
}

func (s *Service) Get(ctx context.Context, p authz.Principal, id int64) (*Ticket, error) {
	scope := s.scopes.Filter(authz.ModuleSupportTickets, p)
	return s.repo.Get(ctx, id, scope)
}

func (s *Service) List(ctx context.Context, p authz.Principal, req ListTicketsRequest) ([]Ticket, int, error) {
	scope := s.scopes.Filter(authz.ModuleSupportTickets, p)
	return s.repo.List(ctx, req, scope)
}

func (s *Service) Update(ctx context.Context, p authz.Principal, id int64, req UpdateTicketRequest) (*Ticket, error) {
	scope := s.scopes.Filter(authz.ModuleSupportTickets, p)

	updates := make(map[string]any)
	if req.Subject != nil {
		updates["subject"] = *req.Subject
	}
	if req.Body != nil {
		updates["body"] = *req.Body
	}
	if req.AssignedTo != nil {
		updates["assigned_to"] = *req.AssignedTo
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates, scope); err != nil {
			return nil, fmt.Errorf("update ticket: %w", err)
		}
	}
	return s.repo.Get(ctx, id, scope)
}

func (s *Service) Delete(ctx context.Context, p authz.Principal, id int64) error {
	scope := s.scopes.Filter(authz.ModuleSupportTickets, p)
	return s.repo.Delete(ctx, id, scope)
}
