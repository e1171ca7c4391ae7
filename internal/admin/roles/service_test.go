package roles

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meridian-crm/meridian/internal/authz"
)

// memRepo backs the service with maps. Grants are stored per role name so
// the matrix store below can rebuild snapshots from them.
type memRepo struct {
	mu     sync.Mutex
	roles  map[int64]Role
	grants map[string][]authz.Grant
	nextID int64
}

func newMemRepo() *memRepo {
	return &memRepo{
		roles:  make(map[int64]Role),
		grants: make(map[string][]authz.Grant),
	}
}

func (m *memRepo) List(ctx context.Context) ([]Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []Role
	for _, r := range m.roles {
		result = append(result, r)
	}
	return result, nil
}

func (m *memRepo) Get(ctx context.Context, id int64) (*Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.roles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (m *memRepo) GetByName(ctx context.Context, name string) (*Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.roles {
		if r.Name == name {
			return &r, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memRepo) Create(ctx context.Context, role Role) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.roles {
		if r.Name == role.Name {
			return 0, ErrAlreadyExists
		}
	}
	m.nextID++
	role.ID = m.nextID
	role.CreatedAt = time.Now()
	role.UpdatedAt = role.CreatedAt
	m.roles[role.ID] = role
	return role.ID, nil
}

func (m *memRepo) Update(ctx context.Context, id int64, updates map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.roles[id]
	if !ok {
		return ErrNotFound
	}
	if name, ok := updates["name"].(string); ok {
		r.Name = name
	}
	if desc, ok := updates["description"].(string); ok {
		r.Description = desc
	}
	m.roles[id] = r
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.roles[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.roles, id)
	delete(m.grants, r.Name)
	return nil
}

func (m *memRepo) ListGrants(ctx context.Context, role string) ([]authz.Grant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.grants[role], nil
}

func (m *memRepo) ReplaceGrants(ctx context.Context, role string, grants []authz.Grant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grants[role] = grants
	return nil
}

// repoStore builds matrix snapshots straight from the repo's grant table,
// counting loads so tests can assert the rebuild happened.
type repoStore struct {
	repo  *memRepo
	mu    sync.Mutex
	loads int
}

func (s *repoStore) LoadMatrix(ctx context.Context) (*authz.Matrix, error) {
	s.mu.Lock()
	s.loads++
	s.mu.Unlock()

	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()
	var all []authz.Grant
	for _, grants := range s.repo.grants {
		all = append(all, grants...)
	}
	return authz.NewMatrix(all), nil
}

func (s *repoStore) loadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads
}

func newTestService(repo *memRepo) (*Service, *authz.Resolver, *repoStore) {
	store := &repoStore{repo: repo}
	resolver := authz.NewResolver(store)
	return NewService(repo, resolver), resolver, store
}

func seedRole(repo *memRepo, name string) int64 {
	id, _ := repo.Create(context.Background(), Role{Name: name})
	return id
}

func TestCreateNormalizesRoleName(t *testing.T) {
	repo := newMemRepo()
	svc, _, _ := newTestService(repo)

	created, err := svc.Create(context.Background(), CreateRoleRequest{
		Name:        "  Night-Auditor ",
		Description: " audits overnight activity ",
	})
	require.NoError(t, err)
	require.Equal(t, "night-auditor", created.Name)
	require.Equal(t, "audits overnight activity", created.Description)
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	repo := newMemRepo()
	seedRole(repo, "auditor")
	svc, _, _ := newTestService(repo)

	_, err := svc.Create(context.Background(), CreateRoleRequest{Name: "auditor"})
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestReplaceGrantsRejectsUnknownPair(t *testing.T) {
	repo := newMemRepo()
	id := seedRole(repo, "auditor")
	svc, _, store := newTestService(repo)

	_, err := svc.ReplaceGrants(context.Background(), id, ReplaceGrantsRequest{
		Grants: []GrantInput{
			{Module: authz.ModuleCustomers, Action: authz.ActionRead},
			{Module: "warehouse", Action: authz.ActionRead},
		},
	})
	require.ErrorIs(t, err, ErrUnknownGrant)

	// The whole request is rejected: nothing was stored, nothing reloaded.
	grants, err := repo.ListGrants(context.Background(), "auditor")
	require.NoError(t, err)
	require.Empty(t, grants)
	require.Zero(t, store.loadCount())
}

func TestReplaceGrantsNormalizesAndReloads(t *testing.T) {
	repo := newMemRepo()
	id := seedRole(repo, "auditor")
	svc, resolver, store := newTestService(repo)
	ctx := context.Background()

	grants, err := svc.ReplaceGrants(ctx, id, ReplaceGrantsRequest{
		Grants: []GrantInput{
			{Module: " Customers ", Action: "READ"},
			{Module: authz.ModulePayments, Action: authz.ActionRead},
		},
	})
	require.NoError(t, err)
	require.Len(t, grants, 2)
	require.Equal(t, authz.Grant{Role: "auditor", Module: authz.ModuleCustomers, Action: authz.ActionRead}, grants[0])
	require.Equal(t, 1, store.loadCount())

	// The rebuilt matrix resolves the new grants without a restart.
	allowed, err := resolver.HasPermission(ctx, "auditor", authz.ModuleCustomers, authz.ActionRead)
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = resolver.HasPermission(ctx, "auditor", authz.ModuleCustomers, authz.ActionDelete)
	require.NoError(t, err)
	require.False(t, allowed)
}

func TestDeleteRoleDropsItsGrants(t *testing.T) {
	repo := newMemRepo()
	id := seedRole(repo, "auditor")
	svc, resolver, _ := newTestService(repo)
	ctx := context.Background()

	_, err := svc.ReplaceGrants(ctx, id, ReplaceGrantsRequest{
		Grants: []GrantInput{{Module: authz.ModuleCustomers, Action: authz.ActionRead}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, id))

	allowed, err := resolver.HasPermission(ctx, "auditor", authz.ModuleCustomers, authz.ActionRead)
	require.NoError(t, err)
	require.False(t, allowed)
}

func TestGrantsReturnsEmptySliceNotNil(t *testing.T) {
	repo := newMemRepo()
	id := seedRole(repo, "auditor")
	svc, _, _ := newTestService(repo)

	grants, err := svc.Grants(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, grants)
	require.Empty(t, grants)
}
