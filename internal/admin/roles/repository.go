package roles

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-crm/meridian/internal/authz"
	"github.com/meridian-crm/meridian/internal/platform/db"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

type Repository interface {
	List(ctx context.Context) ([]Role, error)
	Get(ctx context.Context, id int64) (*Role, error)
	GetByName(ctx context.Context, name string) (*Role, error)
	Create(ctx context.Context, role Role) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
	ListGrants(ctx context.Context, role string) ([]authz.Grant, error)
	ReplaceGrants(ctx context.Context, role string, grants []authz.Grant) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const roleColumns = `id, name, description, created_at, updated_at`

func (r *repository) List(ctx context.Context) ([]Role, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf("SELECT %s FROM roles ORDER BY name", roleColumns))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, role)
	}
	return result, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (*Role, error) {
	query := fmt.Sprintf("SELECT %s FROM roles WHERE id = $1", roleColumns)
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *repository) GetByName(ctx context.Context, name string) (*Role, error) {
	query := fmt.Sprintf("SELECT %s FROM roles WHERE name = $1", roleColumns)
	return r.scanOne(r.pool.QueryRow(ctx, query, name))
}

func (r *repository) scanOne(row pgx.Row) (*Role, error) {
	var role Role
	err := row.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *repository) Create(ctx context.Context, role Role) (int64, error) {
	const query = `
		INSERT INTO roles (name, description)
		VALUES ($1, $2)
		RETURNING id`
	var id int64
	err := r.pool.QueryRow(ctx, query, role.Name, role.Description).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrAlreadyExists
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	query := "UPDATE roles SET updated_at = NOW()"
	var args []any
	argPos := 1

	for _, col := range []string{"name", "description"} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}

	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a role and its grants in one transaction so the matrix
// never sees grants for a role that no longer exists.
func (r *repository) Delete(ctx context.Context, id int64) error {
	role, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM role_permissions WHERE role = $1", role.Name); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, "DELETE FROM roles WHERE id = $1", id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *repository) ListGrants(ctx context.Context, role string) ([]authz.Grant, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT role, module, action FROM role_permissions WHERE role = $1 ORDER BY module, action", role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []authz.Grant
	for rows.Next() {
		var g authz.Grant
		if err := rows.Scan(&g.Role, &g.Module, &g.Action); err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

// ReplaceGrants swaps a role's grant set atomically. Readers of the matrix
// are unaffected until the next snapshot rebuild.
func (r *repository) ReplaceGrants(ctx context.Context, role string, grants []authz.Grant) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM role_permissions WHERE role = $1", role); err != nil {
			return err
		}
		for _, g := range grants {
			if _, err := tx.Exec(ctx,
				"INSERT INTO role_permissions (role, module, action) VALUES ($1, $2, $3)",
				role, g.Module, g.Action); err != nil {
				return err
			}
		}
		return nil
	})
}
