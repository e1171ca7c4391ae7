package authz

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MatrixStore loads the persisted permission matrix.
type MatrixStore interface {
	LoadMatrix(ctx context.Context) (*Matrix, error)
}

// PGStore reads the permission matrix from PostgreSQL.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore constructs a store backed by the provided pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// LoadMatrix reads every grant row. An unprovisioned or unreachable table
// surfaces as an error; callers must treat that as policy unavailable,
// never as an empty (all-deny for non-admin) matrix that masks a broken
// deployment.
func (s *PGStore) LoadMatrix(ctx context.Context) (*Matrix, error) {
	rows, err := s.pool.Query(ctx, `SELECT role, module, action FROM role_permissions`)
	if err != nil {
		return nil, fmt.Errorf("authz: load matrix: %w", err)
	}
	defer rows.Close()

	var grants []Grant
	for rows.Next() {
		var g Grant
		if err := rows.Scan(&g.Role, &g.Module, &g.Action); err != nil {
			return nil, fmt.Errorf("authz: scan grant: %w", err)
		}
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("authz: read grants: %w", err)
	}
	return NewMatrix(grants), nil
}
