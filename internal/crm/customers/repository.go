package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-crm/meridian/internal/authz"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

// Repository persists customers. Every read and mutation takes the scope
// predicate computed for the requesting principal and applies it verbatim;
// a row excluded by the predicate behaves exactly like an absent row.
type Repository interface {
	Get(ctx context.Context, id int64, scope authz.Predicate) (*Customer, error)
	List(ctx context.Context, req ListCustomersRequest, scope authz.Predicate) ([]Customer, int, error)
	Create(ctx context.Context, customer Customer) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any, scope authz.Predicate) error
	Delete(ctx context.Context, id int64, scope authz.Predicate) error
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

const customerColumns = `id, code, name, email, phone, country, assigned_staff_id, is_active, notes, created_by, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64, scope authz.Predicate) (*Customer, error) {
	query := fmt.Sprintf("SELECT %s FROM customers WHERE id = $1", customerColumns)
	args := []any{id}
	if clause, scopeArgs := scope.SQL(2); clause != "" {
		query += " AND " + clause
		args = append(args, scopeArgs...)
	}

	row := r.db.QueryRow(ctx, query, args...)
	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *repository) List(ctx context.Context, req ListCustomersRequest, scope authz.Predicate) ([]Customer, int, error) {
	var conditions []string
	var args []any
	argPos := 1

	if clause, scopeArgs := scope.SQL(argPos); clause != "" {
		conditions = append(conditions, clause)
		args = append(args, scopeArgs...)
		argPos++
	}

	if req.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argPos))
		args = append(args, *req.IsActive)
		argPos++
	}

	if req.Search != nil && *req.Search != "" {
		searchPattern := "%" + *req.Search + "%"
		conditions = append(conditions, fmt.Sprintf("(code ILIKE $%d OR name ILIKE $%d OR email ILIKE $%d)", argPos, argPos, argPos))
		args = append(args, searchPattern)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM customers %s", whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM customers %s ORDER BY code LIMIT $%d OFFSET $%d`,
		customerColumns, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *c)
	}
	return result, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, customer Customer) (int64, error) {
	const query = `
		INSERT INTO customers (code, name, email, phone, country, assigned_staff_id, is_active, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	var id int64
	err := r.db.QueryRow(ctx, query,
		customer.Code,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.Country,
		customer.AssignedStaffID,
		customer.IsActive,
		customer.Notes,
		customer.CreatedBy,
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

func (r *repository) Update(ctx context.Context, id int64, updates map[string]any, scope authz.Predicate) error {
	query := "UPDATE customers SET updated_at = NOW()"
	var args []any
	argPos := 1

	for _, col := range []string{"name", "email", "phone", "country", "assigned_staff_id", "is_active", "notes"} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}

	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)
	argPos++

	if clause, scopeArgs := scope.SQL(argPos); clause != "" {
		query += " AND " + clause
		args = append(args, scopeArgs...)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64, scope authz.Predicate) error {
	query := "DELETE FROM customers WHERE id = $1"
	args := []any{id}
	if clause, scopeArgs := scope.SQL(2); clause != "" {
		query += " AND " + clause
		args = append(args, scopeArgs...)
	}

	tag, err := r.db.Exec(ctx, query, args...)
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
	if err := r.db.QueryRow(ctx, "SELECT count(*) FROM customers").Scan(&count); err != nil {
		return "", err
	}
	return fmt.Sprintf("CUST-%05d", count+1), nil
}

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	var email, phone, notes pgtype.Text
	var assigned pgtype.Int8
	var createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(
		&c.ID, &c.Code, &c.Name, &email, &phone, &c.Country,
		&assigned, &c.IsActive, &notes, &c.CreatedBy, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if email.Valid {
		c.Email = &email.String
	}
	if phone.Valid {
		c.Phone = &phone.String
	}
	if notes.Valid {
		c.Notes = &notes.String
	}
	if assigned.Valid {
		c.AssignedStaffID = &assigned.Int64
	}
	if createdAt.Valid {
		c.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		c.UpdatedAt = updatedAt.Time
	}
	return &c, nil
}
