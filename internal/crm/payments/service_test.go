package payments

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meridian-crm/meridian/internal/authz"
)

type memRepo struct {
	rows   map[int64]Payment
	nextID int64
}

func newMemRepo() *memRepo {
	return &memRepo{rows: make(map[int64]Payment)}
}

func scopeMatches(pay Payment, scope authz.Predicate) bool {
	if !scope.Restricted() {
		return true
	}
	clause, args := scope.SQL(1)
	if strings.TrimSuffix(clause, " = $1") != "customer_id" {
		return false
	}
	return pay.CustomerID == args[0].(int64)
}

func (m *memRepo) Get(ctx context.Context, id int64, scope authz.Predicate) (*Payment, error) {
	pay, ok := m.rows[id]
	if !ok || !scopeMatches(pay, scope) {
		return nil, ErrNotFound
	}
	return &pay, nil
}

func (m *memRepo) List(ctx context.Context, req ListPaymentsRequest, scope authz.Predicate) ([]Payment, int, error) {
	var result []Payment
	for _, pay := range m.rows {
		if scopeMatches(pay, scope) {
			result = append(result, pay)
		}
	}
	return result, len(result), nil
}

func (m *memRepo) Create(ctx context.Context, payment Payment) (int64, error) {
	m.nextID++
	payment.ID = m.nextID
	m.rows[payment.ID] = payment
	return payment.ID, nil
}

func (m *memRepo) SetStatus(ctx context.Context, id int64, status string, paidAt *time.Time, scope authz.Predicate) error {
	pay, ok := m.rows[id]
	if !ok || !scopeMatches(pay, scope) {
		return ErrNotFound
	}
	pay.Status = status
	pay.PaidAt = paidAt
	m.rows[id] = pay
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id int64, scope authz.Predicate) error {
	pay, ok := m.rows[id]
	if !ok || !scopeMatches(pay, scope) {
		return ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func seedPayment(m *memRepo, customerID int64, status string) int64 {
	m.nextID++
	m.rows[m.nextID] = Payment{
		ID:            m.nextID,
		Reference:     "ref",
		ReservationID: 1,
		CustomerID:    customerID,
		Amount:        250,
		Currency:      "EUR",
		Method:        "card",
		Status:        status,
	}
	return m.nextID
}

func newTestService(repo *memRepo) *Service {
	return NewService(repo, authz.DefaultScopePolicy())
}

func TestCreateUppercasesCurrencyAndStartsPending(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	agent := authz.Principal{ID: 7, Role: authz.RoleAgent}

	created, err := svc.Create(context.Background(), agent, CreatePaymentRequest{
		ReservationID: 1,
		CustomerID:    10,
		Amount:        250,
		Currency:      "eur",
		Method:        "card",
	})
	require.NoError(t, err)
	require.Equal(t, "EUR", created.Currency)
	require.Equal(t, StatusPending, created.Status)
	require.NotEmpty(t, created.Reference)
	require.Nil(t, created.PaidAt)
}

func TestCustomerSeesOnlyOwnPayments(t *testing.T) {
	repo := newMemRepo()
	own := seedPayment(repo, 10, StatusSettled)
	seedPayment(repo, 11, StatusSettled)

	svc := newTestService(repo)
	customer := authz.Principal{ID: 10, Role: authz.RoleCustomer}

	result, total, err := svc.List(context.Background(), customer, ListPaymentsRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, own, result[0].ID)
}

func TestAgentListsPaymentsUnrestricted(t *testing.T) {
	repo := newMemRepo()
	seedPayment(repo, 10, StatusPending)
	seedPayment(repo, 11, StatusPending)

	svc := newTestService(repo)
	agent := authz.Principal{ID: 7, Role: authz.RoleAgent}

	// Payments scope only customers; staff visibility is coarse.
	_, total, err := svc.List(context.Background(), agent, ListPaymentsRequest{})
	require.NoError(t, err)
	require.Equal(t, 2, total)
}

func TestSettleStampsPaidAt(t *testing.T) {
	repo := newMemRepo()
	id := seedPayment(repo, 10, StatusPending)

	svc := newTestService(repo)
	agent := authz.Principal{ID: 7, Role: authz.RoleAgent}

	settled, err := svc.Settle(context.Background(), agent, id, StatusSettled)
	require.NoError(t, err)
	require.Equal(t, StatusSettled, settled.Status)
	require.NotNil(t, settled.PaidAt)
	require.WithinDuration(t, time.Now(), *settled.PaidAt, time.Minute)
}

func TestRefundClearsPaidAt(t *testing.T) {
	repo := newMemRepo()
	id := seedPayment(repo, 10, StatusPending)

	svc := newTestService(repo)
	agent := authz.Principal{ID: 7, Role: authz.RoleAgent}
	ctx := context.Background()

	_, err := svc.Settle(ctx, agent, id, StatusSettled)
	require.NoError(t, err)

	refunded, err := svc.Settle(ctx, agent, id, StatusRefunded)
	require.NoError(t, err)
	require.Equal(t, StatusRefunded, refunded.Status)
	require.Nil(t, refunded.PaidAt)
}

func TestCustomerCannotSettleAnotherCustomersPayment(t *testing.T) {
	repo := newMemRepo()
	id := seedPayment(repo, 11, StatusPending)

	svc := newTestService(repo)
	customer := authz.Principal{ID: 10, Role: authz.RoleCustomer}

	_, err := svc.Settle(context.Background(), customer, id, StatusSettled)
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, StatusPending, repo.rows[id].Status)
}
