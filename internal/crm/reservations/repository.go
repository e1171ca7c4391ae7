package reservations

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
	Get(ctx context.Context, id int64, scope authz.Predicate) (*Reservation, error)
	List(ctx context.Context, req ListReservationsRequest, scope authz.Predicate) ([]Reservation, int, error)
	Create(ctx context.Context, res Reservation) (int64, error)
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

const reservationColumns = `id, code, customer_id, property_id, check_in, check_out, status, total_amount, assigned_staff_id, notes, created_by, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64, scope authz.Predicate) (*Reservation, error) {
	query := fmt.Sprintf("SELECT %s FROM reservations WHERE id = $1", reservationColumns)
	args := []any{id}
	if clause, scopeArgs := scope.SQL(2); clause != "" {
		query += " AND " + clause
		args = append(args, scopeArgs...)
	}

	res, err := scanReservation(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return res, nil
}

func (r *repository) List(ctx context.Context, req ListReservationsRequest, scope authz.Predicate) ([]Reservation, int, error) {
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
	if req.PropertyID != nil {
		conditions = append(conditions, fmt.Sprintf("property_id = $%d", argPos))
		args = append(args, *req.PropertyID)
		argPos++
	}
	if req.From != nil {
		conditions = append(conditions, fmt.Sprintf("check_in >= $%d", argPos))
		args = append(args, *req.From)
		argPos++
	}
	if req.To != nil {
		conditions = append(conditions, fmt.Sprintf("check_out <= $%d", argPos))
		args = append(args, *req.To)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM reservations %s", whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM reservations %s ORDER BY check_in DESC LIMIT $%d OFFSET $%d`,
		reservationColumns, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *res)
	}
	return result, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, res Reservation) (int64, error) {
	const query = `
		INSERT INTO reservations (code, customer_id, property_id, check_in, check_out, status, total_amount, assigned_staff_id, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	var id int64
	err := r.db.QueryRow(ctx, query,
		res.Code,
		res.CustomerID,
		res.PropertyID,
		res.CheckIn,
		res.CheckOut,
		res.Status,
		res.TotalAmount,
		res.AssignedStaffID,
		res.Notes,
		res.CreatedBy,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]any, scope authz.Predicate) error {
	query := "UPDATE reservations SET updated_at = NOW()"
	var args []any
	argPos := 1

	for _, col := range []string{"check_in", "check_out", "status", "total_amount", "assigned_staff_id", "notes"} {
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
	query := "DELETE FROM reservations WHERE id = $1"
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
	if err := r.db.QueryRow(ctx, "SELECT count(*) FROM reservations").Scan(&count); err != nil {
		return "", err
	}
	return fmt.Sprintf("RSV-%06d", count+1), nil
}

func scanReservation(row pgx.Row) (*Reservation, error) {
	var res Reservation
	var notes pgtype.Text
	var assigned pgtype.Int8
	var amount pgtype.Numeric
	var checkIn, checkOut pgtype.Timestamptz
	var createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(
		&res.ID, &res.Code, &res.CustomerID, &res.PropertyID, &checkIn, &checkOut,
		&res.Status, &amount, &assigned, &notes, &res.CreatedBy, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if amount.Valid {
		f, _ := amount.Float64Value()
		res.TotalAmount = f.Float64
	}
	if assigned.Valid {
		res.AssignedStaffID = &assigned.Int64
	}
	if notes.Valid {
		res.Notes = &notes.String
	}
	if checkIn.Valid {
		res.CheckIn = checkIn.Time
	}
	if checkOut.Valid {
		res.CheckOut = checkOut.Time
	}
	if createdAt.Valid {
		res.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		res.UpdatedAt = updatedAt.Time
	}
	return &res, nil
}
