package properties

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type memRepo struct {
	rows   map[int64]Property
	nextID int64
}

func newMemRepo() *memRepo {
	return &memRepo{rows: make(map[int64]Property)}
}

func (m *memRepo) Get(ctx context.Context, id int64) (*Property, error) {
	p, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *memRepo) List(ctx context.Context, req ListPropertiesRequest) ([]Property, int, error) {
	var result []Property
	for _, p := range m.rows {
		if req.Kind != nil && p.Kind != *req.Kind {
			continue
		}
		if req.IsActive != nil && p.IsActive != *req.IsActive {
			continue
		}
		result = append(result, p)
	}
	return result, len(result), nil
}

func (m *memRepo) Create(ctx context.Context, property Property) (int64, error) {
	m.nextID++
	property.ID = m.nextID
	m.rows[property.ID] = property
	return property.ID, nil
}

func (m *memRepo) Update(ctx context.Context, id int64, updates map[string]any) error {
	p, ok := m.rows[id]
	if !ok {
		return ErrNotFound
	}
	if rate, ok := updates["nightly_rate"].(float64); ok {
		p.NightlyRate = rate
	}
	if active, ok := updates["is_active"].(bool); ok {
		p.IsActive = active
	}
	if country, ok := updates["country"].(string); ok {
		p.Country = country
	}
	m.rows[id] = p
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memRepo) GenerateCode(ctx context.Context) (string, error) {
	return fmt.Sprintf("PROP-%04d", len(m.rows)+1), nil
}

func ptr[T any](v T) *T { return &v }

func TestCreateNormalizesKindAndCountry(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), CreatePropertyRequest{
		Name:        "Casa do Mar",
		Kind:        "Villa",
		City:        "Lagos",
		Country:     "pt",
		Capacity:    8,
		NightlyRate: 320,
	})
	require.NoError(t, err)
	require.Equal(t, "villa", created.Kind)
	require.Equal(t, "PT", created.Country)
	require.Equal(t, "PROP-0001", created.Code)
	require.True(t, created.IsActive)
}

func TestUpdateUppercasesCountry(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), CreatePropertyRequest{
		Name: "Loft 21", Kind: "apartment", City: "Porto", Country: "PT", Capacity: 2,
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, UpdatePropertyRequest{
		Country: ptr("es"),
	})
	require.NoError(t, err)
	require.Equal(t, "ES", updated.Country)
}

func TestUpdateMissingPropertyReportsNotFound(t *testing.T) {
	svc := NewService(newMemRepo())

	_, err := svc.Update(context.Background(), 99, UpdatePropertyRequest{IsActive: ptr(false)})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListFiltersByKind(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreatePropertyRequest{Name: "A", Kind: "villa", City: "Lagos", Country: "PT", Capacity: 4})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreatePropertyRequest{Name: "B", Kind: "hotel", City: "Faro", Country: "PT", Capacity: 40})
	require.NoError(t, err)

	_, total, err := svc.List(ctx, ListPropertiesRequest{Kind: ptr("villa")})
	require.NoError(t, err)
	require.Equal(t, 1, total)
}
