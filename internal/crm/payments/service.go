package payments

import (
	"context"
	"fmt"
	"strings"
	"time"

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

func (s *Service) Create(ctx context.Context, p authz.Principal, req CreatePaymentRequest) (*Payment, error) {
	payment := Payment{
		Reference:     uuid.NewString(),
		ReservationID: req.ReservationID,
		CustomerID:    req.CustomerID,
		Amount:        req.Amount,
		Currency:      strings.ToUpper(req.Currency),
		Method:        req.Method,
		Status:        StatusPending,
		CreatedBy:     p.ID,
	}

	id, err := s.repo.Create(ctx, payment)
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	payment.ID = id
	return &payment, nil
}

func (s *Service) Get(ctx context.Context, p authz.Principal, id int64) (*Payment, error) {
	scope := s.scopes.Filter(authz.ModulePayments, p)
	return s.repo.Get(ctx, id, scope)
}

func (s *Service) List(ctx context.Context, p authz.Principal, req ListPaymentsRequest) ([]Payment, int, error) {
	scope := s.scopes.Filter(authz.ModulePayments, p)
	return s.repo.List(ctx, req, scope)
}

// Settle finalizes a payment. Settling stamps paid_at; refunds and
// failures clear it.
func (s *Service) Settle(ctx context.Context, p authz.Principal, id int64, status string) (*Payment, error) {
	scope := s.scopes.Filter(authz.ModulePayments, p)

	var paidAt *time.Time
	if status == StatusSettled {
		now := time.Now()
		paidAt = &now
	}
	if err := s.repo.SetStatus(ctx, id, status, paidAt, scope); err != nil {
		return nil, fmt.Errorf("settle payment: %w", err)
	}
	return s.repo.Get(ctx, id, scope)
}

func (s *Service) Delete(ctx context.Context, p authz.Principal, id int64) error {
	scope := s.scopes.Filter(authz.ModulePayments, p)
	return s.repo.Delete(ctx, id, scope)
}
