package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-crm/meridian/internal/authz"
)

var ErrNotFound = errors.New("record not found")

type Repository interface {
	Get(ctx context.Context, id int64, scope authz.Predicate) (*Payment, error)
	List(ctx context.Context, req ListPaymentsRequest, scope authz.Predicate) ([]Payment, int, error)
	Create(ctx context.Context, payment Payment) (int64, error)
	SetStatus(ctx context.Context, id int64, status string, paidAt *time.Time, scope authz.Predicate) error
	Delete(ctx context.Context, id int64, scope authz.Predicate) error
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

const paymentColumns = `id, reference, reservation_id, customer_id, amount, currency, method, status, paid_at, created_by, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64, scope authz.Predicate) (*Payment, error) {
	query := fmt.Sprintf("SELECT %s FROM payments WHERE id = $1", paymentColumns)
	args := []any{id}
	if clause, scopeArgs := scope.SQL(2); clause != "" {
		query += " AND " + clause
		args = append(args, scopeArgs...)
	}

	payment, err := scanPayment(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return payment, nil
}

func (r *repository) List(ctx context.Context, req ListPaymentsRequest, scope authz.Predicate) ([]Payment, int, error) {
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
	if req.ReservationID != nil {
		conditions = append(conditions, fmt.Sprintf("reservation_id = $%d", argPos))
		args = append(args, *req.ReservationID)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM payments %s", whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM payments %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		paymentColumns, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *payment)
	}
	return result, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, payment Payment) (int64, error) {
	const query = `
		INSERT INTO payments (reference, reservation_id, customer_id, amount, currency, method, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	var id int64
	err := r.db.QueryRow(ctx, query,
		payment.Reference,
		payment.ReservationID,
		payment.CustomerID,
		payment.Amount,
		payment.Currency,
		payment.Method,
		payment.Status,
		payment.CreatedBy,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) SetStatus(ctx context.Context, id int64, status string, paidAt *time.Time, scope authz.Predicate) error {
	query := "UPDATE payments SET updated_at = NOW(), status = $1, paid_at = $2 WHERE id = $3"
	args := []any{status, paidAt, id}
	if clause, scopeArgs := scope.SQL(4); clause != "" {
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
	query := "DELETE FROM payments WHERE id = $1"
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

func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	var amount pgtype.Numeric
	var paidAt, createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(
		&p.ID, &p.Reference, &p.ReservationID, &p.CustomerID, &amount,
		&p.Currency, &p.Method, &p.Status, &paidAt, &p.CreatedBy, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if amount.Valid {
		f, _ := amount.Float64Value()
		p.Amount = f.Float64
	}
	if paidAt.Valid {
		p.PaidAt = &paidAt.Time
	}
	if createdAt.Valid {
		p.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		p.UpdatedAt = updatedAt.Time
	}
	return &p, nil
}
