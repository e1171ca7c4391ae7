package tickets

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

var ErrNotFound = errors.New("record not found")

type Repository interface {
	Get(ctx context.Context, id int64, scope authz.Predicate) (*Ticket, error)
	List(ctx context.Context, req ListTicketsRequest, scope authz.Predicate) ([]Ticket, int, error)
	Create(ctx context.Context, ticket Ticket) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any, scope authz.Predicate) error
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

const ticketColumns = `id, number, subject, body, customer_id, assigned_to, priority, status, created_by, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64, scope authz.Predicate) (*Ticket, error) {
	query := fmt.Sprintf("SELECT %s FROM support_tickets WHERE id = $1", ticketColumns)
	args := []any{id}
	if clause, scopeArgs := scope.SQL(2); clause != "" {
		query += " AND " + clause
		args = append(args, scopeArgs...)
	}

	ticket, err := scanTicket(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ticket, nil
}

func (r *repository) List(ctx context.Context, req ListTicketsRequest, scope authz.Predicate) ([]Ticket, int, error) {
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
	if req.Priority != nil {
		conditions = append(conditions, fmt.Sprintf("priority = $%d", argPos))
		args = append(args, *req.Priority)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM support_tickets %s", whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM support_tickets %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		ticketColumns, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *ticket)
	}
	return result, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, ticket Ticket) (int64, error) {
	const query = `
		INSERT INTO support_tickets (number, subject, body, customer_id, assigned_to, priority, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	var id int64
	err := r.db.QueryRow(ctx, query,
		ticket.Number,
		ticket.Subject,
		ticket.Body,
		ticket.CustomerID,
		ticket.AssignedTo,
		ticket.Priority,
		ticket.Status,
		ticket.CreatedBy,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]any, scope authz.Predicate) error {
	query := "UPDATE support_tickets SET updated_at = NOW()"
	var args []any
	argPos := 1

	for _, col := range []string{"subject", "body", "assigned_to", "priority", "status"} {
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
	query := "DELETE FROM support_tickets WHERE id = $1"
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

func scanTicket(row pgx.Row) (*Ticket, error) {
	var t Ticket
	var assigned pgtype.Int8
	var createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(
		&t.ID, &t.Number, &t.Subject, &t.Body, &t.CustomerID,
		&assigned, &t.Priority, &t.Status, &t.CreatedBy, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if assigned.Valid {
		t.AssignedTo = &assigned.Int64
	}
	if createdAt.Valid {
		t.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		t.UpdatedAt = updatedAt.Time
	}
	return &t, nil
}
