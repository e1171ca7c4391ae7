package trips

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
	ErrNotFound          = errors.New("record not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type Repository interface {
	Get(ctx context.Context, id int64, scope authz.Predicate) (*Trip, error)
	List(ctx context.Context, req ListTripsRequest, scope authz.Predicate) ([]Trip, int, error)
	Create(ctx context.Context, trip Trip) (int64, error)
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

const tripColumns = `id, code, customer_id, property_id, destination, start_date, end_date, status, total_price, notes, created_by, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64, scope authz.Predicate) (*Trip, error) {
	query := fmt.Sprintf("SELECT %s FROM trips WHERE id = $1", tripColumns)
	args := []any{id}
	if clause, scopeArgs := scope.SQL(2); clause != "" {
		query += " AND " + clause
		args = append(args, scopeArgs...)
	}

	trip, err := scanTrip(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return trip, nil
}

func (r *repository) List(ctx context.Context, req ListTripsRequest, scope authz.Predicate) ([]Trip, int, error) {
	var conditions []string
	var args []any
	argPos := 1

	if clause, scopeArgs := scope.SQL(argPos); clause != "" {
		conditions = append(conditions, clause)
		args = append(args, scopeArgs...)
		argPos++
	}
	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *req.Status)
		argPos++
	}
	if req.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", argPos))
		args = append(args, *req.CustomerID)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM trips %s", whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM trips %s ORDER BY start_date DESC LIMIT $%d OFFSET $%d`,
		tripColumns, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *trip)
	}
	return result, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, trip Trip) (int64, error) {
	const query = `
		INSERT INTO trips (code, customer_id, property_id, destination, start_date, end_date, status, total_price, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	var id int64
	err := r.db.QueryRow(ctx, query,
		trip.Code,
		trip.CustomerID,
		trip.PropertyID,
		trip.Destination,
		trip.StartDate,
		trip.EndDate,
		trip.Status,
		trip.TotalPrice,
		trip.Notes,
		trip.CreatedBy,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]any, scope authz.Predicate) error {
	query := "UPDATE trips SET updated_at = NOW()"
	var args []any
	argPos := 1

	for _, col := range []string{"property_id", "destination", "start_date", "end_date", "status", "total_price", "notes"} {
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
	query := "DELETE FROM trips WHERE id = $1"
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
	if err := r.db.QueryRow(ctx, "SELECT count(*) FROM trips").Scan(&count); err != nil {
		return "", err
	}
	return fmt.Sprintf("TRIP-%05d", count+1), nil
}

func scanTrip(row pgx.Row) (*Trip, error) {
	var trip Trip
	var notes pgtype.Text
	var property pgtype.Int8
	var price pgtype.Numeric
	var start, end pgtype.Timestamptz
	var createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(
		&trip.ID, &trip.Code, &trip.CustomerID, &property, &trip.Destination, &start, &end,
		&trip.Status, &price, &notes, &trip.CreatedBy, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if price.Valid {
		f, _ := price.Float64Value()
		trip.TotalPrice = f.Float64
	}
	if property.Valid {
		trip.PropertyID = &property.Int64
	}
	if notes.Valid {
		trip.Notes = &notes.String
	}
	if start.Valid {
		trip.StartDate = start.Time
	}
	if end.Valid {
		trip.EndDate = end.Time
	}
	if createdAt.Valid {
		trip.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		trip.UpdatedAt = updatedAt.Time
	}
	return &trip, nil
}
