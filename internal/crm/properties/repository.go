package properties

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

// Repository persists the shared property inventory. Inventory is visible
// tenant-wide, so rows carry no per-principal predicate; access is enforced
// at the permission level only.
type Repository interface {
	Get(ctx context.Context, id int64) (*Property, error)
	List(ctx context.Context, req ListPropertiesRequest) ([]Property, int, error)
	Create(ctx context.Context, property Property) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
	GenerateCode(ctx context.Context) (string, error)
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db dbtx
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const propertyColumns = `id, code, name, kind, city, country, capacity, nightly_rate, is_active, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*Property, error) {
	query := fmt.Sprintf("SELECT %s FROM properties WHERE id = $1", propertyColumns)
	p, err := scanProperty(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *repository) List(ctx context.Context, req ListPropertiesRequest) ([]Property, int, error) {
	var conditions []string
	var args []any
	argPos := 1

	if req.Kind != nil {
		conditions = append(conditions, fmt.Sprintf("kind = $%d", argPos))
		args = append(args, *req.Kind)
		argPos++
	}

	if req.City != nil {
		conditions = append(conditions, fmt.Sprintf("city = $%d", argPos))
		args = append(args, *req.City)
		argPos++
	}

	if req.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argPos))
		args = append(args, *req.IsActive)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM properties %s", whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM properties %s ORDER BY code LIMIT $%d OFFSET $%d`,
		propertyColumns, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *p)
	}
	return result, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, property Property) (int64, error) {
	const query = `
		INSERT INTO properties (code, name, kind, city, country, capacity, nightly_rate, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	var id int64
	err := r.db.QueryRow(ctx, query,
		property.Code,
		property.Name,
		property.Kind,
		property.City,
		property.Country,
		property.Capacity,
		property.NightlyRate,
		property.IsActive,
	).Scan(&id)
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
	query := "UPDATE properties SET updated_at = NOW()"
	var args []any
	argPos := 1

	for _, col := range []string{"name", "city", "country", "capacity", "nightly_rate", "is_active"} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}

	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM properties WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) GenerateCode(ctx context.Context) (string, error) {
	var count int64
	if err := r.db.QueryRow(ctx, "SELECT count(*) FROM properties").Scan(&count); err != nil {
		return "", err
	}
	return fmt.Sprintf("PROP-%04d", count+1), nil
}

func scanProperty(row pgx.Row) (*Property, error) {
	var p Property
	err := row.Scan(
		&p.ID, &p.Code, &p.Name, &p.Kind, &p.City, &p.Country,
		&p.Capacity, &p.NightlyRate, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
