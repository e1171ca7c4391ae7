package customers

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridian-crm/meridian/internal/authz"
)

type memRepo struct {
	rows   map[int64]Customer
	nextID int64
}

func newMemRepo() *memRepo {
	return &memRepo{rows: make(map[int64]Customer)}
}

// scopeMatches applies the predicate the way the SQL layer would: by
// comparing the ownership column it renders against the row.
func scopeMatches(c Customer, scope authz.Predicate) bool {
	if !scope.Restricted() {
		return true
	}
	clause, args := scope.SQL(1)
	column := strings.TrimSuffix(clause, " = $1")
	want := args[0].(int64)
	switch column {
	case "assigned_staff_id":
		return c.AssignedStaffID != nil && *c.AssignedStaffID == want
	case "id":
		return c.ID == want
	}
	return false
}

func (m *memRepo) Get(ctx context.Context, id int64, scope authz.Predicate) (*Customer, error) {
	c, ok := m.rows[id]
	if !ok || !scopeMatches(c, scope) {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *memRepo) List(ctx context.Context, req ListCustomersRequest, scope authz.Predicate) ([]Customer, int, error) {
	var result []Customer
	for _, c := range m.rows {
		if scopeMatches(c, scope) {
			result = append(result, c)
		}
	}
	return result, len(result), nil
}

func (m *memRepo) Create(ctx context.Context, customer Customer) (int64, error) {
	m.nextID++
	customer.ID = m.nextID
	m.rows[customer.ID] = customer
	return customer.ID, nil
}

func (m *memRepo) Update(ctx context.Context, id int64, updates map[string]any, scope authz.Predicate) error {
	c, ok := m.rows[id]
	if !ok || !scopeMatches(c, scope) {
		return ErrNotFound
	}
	if name, ok := updates["name"].(string); ok {
		c.Name = name
	}
	if active, ok := updates["is_active"].(bool); ok {
		c.IsActive = active
	}
	if staffID, ok := updates["assigned_staff_id"].(int64); ok {
		c.AssignedStaffID = &staffID
	}
	m.rows[id] = c
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id int64, scope authz.Predicate) error {
	c, ok := m.rows[id]
	if !ok || !scopeMatches(c, scope) {
		return ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memRepo) GenerateCode(ctx context.Context) (string, error) {
	return fmt.Sprintf("CUST-%04d", len(m.rows)+1), nil
}

func seedCustomer(m *memRepo, staffID *int64) int64 {
	m.nextID++
	m.rows[m.nextID] = Customer{
		ID:              m.nextID,
		Code:            fmt.Sprintf("CUST-%04d", m.nextID),
		Name:            "Seed Customer",
		Country:         "PT",
		AssignedStaffID: staffID,
		IsActive:        true,
	}
	return m.nextID
}

func newTestService(repo *memRepo) *Service {
	return NewService(repo, authz.DefaultScopePolicy())
}

func ptr[T any](v T) *T { return &v }

func TestAgentListsOnlyAssignedCustomers(t *testing.T) {
	repo := newMemRepo()
	mine := seedCustomer(repo, ptr(int64(7)))
	seedCustomer(repo, ptr(int64(8)))
	seedCustomer(repo, nil)

	svc := newTestService(repo)
	agent := authz.Principal{ID: 7, Role: authz.RoleAgent}

	result, total, err := svc.List(context.Background(), agent, ListCustomersRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, result, 1)
	require.Equal(t, mine, result[0].ID)
}

func TestAdminListsEveryCustomer(t *testing.T) {
	repo := newMemRepo()
	seedCustomer(repo, ptr(int64(7)))
	seedCustomer(repo, ptr(int64(8)))
	seedCustomer(repo, nil)

	svc := newTestService(repo)
	admin := authz.Principal{ID: 1, Role: authz.RoleAdmin}

	_, total, err := svc.List(context.Background(), admin, ListCustomersRequest{})
	require.NoError(t, err)
	require.Equal(t, 3, total)
}

func TestScopedOutCustomerReadsAsNotFound(t *testing.T) {
	repo := newMemRepo()
	id := seedCustomer(repo, ptr(int64(8)))

	svc := newTestService(repo)
	agent := authz.Principal{ID: 7, Role: authz.RoleAgent}

	_, err := svc.Get(context.Background(), agent, id)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestScopedOutCustomerUpdateReportsNotFound(t *testing.T) {
	repo := newMemRepo()
	id := seedCustomer(repo, ptr(int64(8)))

	svc := newTestService(repo)
	agent := authz.Principal{ID: 7, Role: authz.RoleAgent}

	_, err := svc.Update(context.Background(), agent, id, UpdateCustomerRequest{
		Name: ptr("New Name"),
	})
	require.ErrorIs(t, err, ErrNotFound)

	// The row itself is untouched.
	require.Equal(t, "Seed Customer", repo.rows[id].Name)
}

func TestScopedOutCustomerDeleteReportsNotFound(t *testing.T) {
	repo := newMemRepo()
	id := seedCustomer(repo, ptr(int64(8)))

	svc := newTestService(repo)
	agent := authz.Principal{ID: 7, Role: authz.RoleAgent}

	err := svc.Delete(context.Background(), agent, id)
	require.ErrorIs(t, err, ErrNotFound)
	require.Contains(t, repo.rows, id)
}

func TestCustomerSeesOwnRecordOnly(t *testing.T) {
	repo := newMemRepo()
	seedCustomer(repo, nil)
	own := seedCustomer(repo, nil)

	svc := newTestService(repo)
	self := authz.Principal{ID: own, Role: authz.RoleCustomer}

	got, err := svc.Get(context.Background(), self, own)
	require.NoError(t, err)
	require.Equal(t, own, got.ID)

	result, total, err := svc.List(context.Background(), self, ListCustomersRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, own, result[0].ID)
}

func TestCreateNormalizesNameAndStampsCreator(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	manager := authz.Principal{ID: 3, Role: authz.RoleManager}

	created, err := svc.Create(context.Background(), manager, CreateCustomerRequest{
		Name:    "maria joão silva",
		Country: "PT",
	})
	require.NoError(t, err)
	require.Equal(t, "Maria João Silva", created.Name)
	require.Equal(t, int64(3), created.CreatedBy)
	require.True(t, created.IsActive)
	require.Equal(t, "CUST-0001", created.Code)
}

func TestUpdateReassignsStaff(t *testing.T) {
	repo := newMemRepo()
	id := seedCustomer(repo, ptr(int64(7)))

	svc := newTestService(repo)
	admin := authz.Principal{ID: 1, Role: authz.RoleAdmin}

	updated, err := svc.Update(context.Background(), admin, id, UpdateCustomerRequest{
		AssignedStaffID: ptr(int64(8)),
	})
	require.NoError(t, err)
	require.Equal(t, int64(8), *updated.AssignedStaffID)
}

func TestAgentReassigningAwayLosesVisibility(t *testing.T) {
	repo := newMemRepo()
	id := seedCustomer(repo, ptr(int64(7)))

	svc := newTestService(repo)
	agent := authz.Principal{ID: 7, Role: authz.RoleAgent}

	// The mutation lands, but the scoped re-read no longer matches.
	_, err := svc.Update(context.Background(), agent, id, UpdateCustomerRequest{
		AssignedStaffID: ptr(int64(8)),
	})
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, int64(8), *repo.rows[id].AssignedStaffID)
}
