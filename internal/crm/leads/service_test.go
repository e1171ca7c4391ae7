package leads

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridian-crm/meridian/internal/authz"
)

type memRepo struct {
	rows   map[int64]Lead
	nextID int64
}

func newMemRepo() *memRepo {
	return &memRepo{rows: make(map[int64]Lead)}
}

func scopeMatches(l Lead, scope authz.Predicate) bool {
	if !scope.Restricted() {
		return true
	}
	clause, args := scope.SQL(1)
	column := strings.TrimSuffix(clause, " = $1")
	want := args[0].(int64)
	if column != "agent_id" {
		return false
	}
	return l.AgentID != nil && *l.AgentID == want
}

func (m *memRepo) Get(ctx context.Context, id int64, scope authz.Predicate) (*Lead, error) {
	l, ok := m.rows[id]
	if !ok || !scopeMatches(l, scope) {
		return nil, ErrNotFound
	}
	return &l, nil
}

func (m *memRepo) List(ctx context.Context, req ListLeadsRequest, scope authz.Predicate) ([]Lead, int, error) {
	var result []Lead
	for _, l := range m.rows {
		if !scopeMatches(l, scope) {
			continue
		}
		if req.Status != nil && l.Status != *req.Status {
			continue
		}
		result = append(result, l)
	}
	return result, len(result), nil
}

func (m *memRepo) Create(ctx context.Context, lead Lead) (int64, error) {
	m.nextID++
	lead.ID = m.nextID
	m.rows[lead.ID] = lead
	return lead.ID, nil
}

func (m *memRepo) Update(ctx context.Context, id int64, updates map[string]any, scope authz.Predicate) error {
	l, ok := m.rows[id]
	if !ok || !scopeMatches(l, scope) {
		return ErrNotFound
	}
	if status, ok := updates["status"].(string); ok {
		l.Status = status
	}
	if agentID, ok := updates["agent_id"].(int64); ok {
		l.AgentID = &agentID
	}
	if name, ok := updates["name"].(string); ok {
		l.Name = name
	}
	m.rows[id] = l
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id int64, scope authz.Predicate) error {
	l, ok := m.rows[id]
	if !ok || !scopeMatches(l, scope) {
		return ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func seedLead(m *memRepo, agentID *int64, status string) int64 {
	m.nextID++
	m.rows[m.nextID] = Lead{
		ID:      m.nextID,
		Name:    "Seed Lead",
		Source:  "website",
		Status:  status,
		AgentID: agentID,
	}
	return m.nextID
}

func newTestService(repo *memRepo) *Service {
	return NewService(repo, authz.DefaultScopePolicy())
}

func ptr[T any](v T) *T { return &v }

func TestAgentListsOnlyOwnLeads(t *testing.T) {
	repo := newMemRepo()
	mine := seedLead(repo, ptr(int64(7)), StatusNew)
	seedLead(repo, ptr(int64(8)), StatusNew)
	seedLead(repo, nil, StatusNew)

	svc := newTestService(repo)
	agent := authz.Principal{ID: 7, Role: authz.RoleAgent}

	result, total, err := svc.List(context.Background(), agent, ListLeadsRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, mine, result[0].ID)
}

func TestSalesShareTheAgentScopeColumn(t *testing.T) {
	repo := newMemRepo()
	mine := seedLead(repo, ptr(int64(3)), StatusNew)
	seedLead(repo, ptr(int64(7)), StatusNew)

	svc := newTestService(repo)
	sales := authz.Principal{ID: 3, Role: authz.RoleSales}

	result, total, err := svc.List(context.Background(), sales, ListLeadsRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, mine, result[0].ID)
}

func TestCreateStartsLeadAsNew(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	agent := authz.Principal{ID: 7, Role: authz.RoleAgent}

	created, err := svc.Create(context.Background(), agent, CreateLeadRequest{
		Name:    "joão almeida",
		Source:  "referral",
		AgentID: ptr(int64(7)),
	})
	require.NoError(t, err)
	require.Equal(t, StatusNew, created.Status)
	require.Equal(t, "João Almeida", created.Name)
	require.Equal(t, int64(7), created.CreatedBy)
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	repo := newMemRepo()
	id := seedLead(repo, ptr(int64(7)), StatusNew)

	svc := newTestService(repo)
	agent := authz.Principal{ID: 7, Role: authz.RoleAgent}

	_, err := svc.Update(context.Background(), agent, id, UpdateLeadRequest{
		Status: ptr("simmering"),
	})
	require.ErrorIs(t, err, ErrInvalidStatus)
	require.Equal(t, StatusNew, repo.rows[id].Status)
}

func TestUpdateAdvancesStatus(t *testing.T) {
	repo := newMemRepo()
	id := seedLead(repo, ptr(int64(7)), StatusNew)

	svc := newTestService(repo)
	agent := authz.Principal{ID: 7, Role: authz.RoleAgent}

	updated, err := svc.Update(context.Background(), agent, id, UpdateLeadRequest{
		Status: ptr(StatusQualified),
	})
	require.NoError(t, err)
	require.Equal(t, StatusQualified, updated.Status)
}

func TestScopedOutLeadMutationsReportNotFound(t *testing.T) {
	repo := newMemRepo()
	id := seedLead(repo, ptr(int64(8)), StatusNew)

	svc := newTestService(repo)
	agent := authz.Principal{ID: 7, Role: authz.RoleAgent}
	ctx := context.Background()

	_, err := svc.Get(ctx, agent, id)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(ctx, agent, id, UpdateLeadRequest{Status: ptr(StatusContacted)})
	require.ErrorIs(t, err, ErrNotFound)

	err = svc.Delete(ctx, agent, id)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAssignReturnsLeadAfterHandoff(t *testing.T) {
	repo := newMemRepo()
	id := seedLead(repo, ptr(int64(7)), StatusContacted)

	svc := newTestService(repo)
	agent := authz.Principal{ID: 7, Role: authz.RoleAgent}

	// Handing the lead to another agent moves it outside the caller's
	// scope, yet the handler still gets the updated row back.
	updated, err := svc.Assign(context.Background(), agent, id, 8)
	require.NoError(t, err)
	require.Equal(t, int64(8), *updated.AgentID)
}

func TestAssignScopedOutLeadReportsNotFound(t *testing.T) {
	repo := newMemRepo()
	id := seedLead(repo, ptr(int64(8)), StatusContacted)

	svc := newTestService(repo)
	agent := authz.Principal{ID: 7, Role: authz.RoleAgent}

	_, err := svc.Assign(context.Background(), agent, id, 7)
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, int64(8), *repo.rows[id].AgentID)
}
