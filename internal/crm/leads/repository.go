package leads

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
	ErrInvalidStatus = errors.New("invalid lead status")
)

type Repository interface {
	Get(ctx context.Context, id int64, scope authz.Predicate) (*Lead, error)
	List(ctx context.Context, req ListLeadsRequest, scope authz.Predicate) ([]Lead, int, error)
	Create(ctx context.Context, lead Lead) (int64, error)
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

const leadColumns = `id, name, email, phone, source, status, agent_id, property_id, notes, created_by, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64, scope authz.Predicate) (*Lead, error) {
	query := fmt.Sprintf("SELECT %s FROM leads WHERE id = $1", leadColumns)
	args := []any{id}
	if clause, scopeArgs := scope.SQL(2); clause != "" {
		query += " AND " + clause
		args = append(args, scopeArgs...)
	}

	lead, err := scanLead(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return lead, nil
}

func (r *repository) List(ctx context.Context, req ListLeadsRequest, scope authz.Predicate) ([]Lead, int, error) {
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
	if req.Source != nil {
		conditions = append(conditions, fmt.Sprintf("source = $%d", argPos))
		args = append(args, *req.Source)
		argPos++
	}
	if req.AgentID != nil {
		conditions = append(conditions, fmt.Sprintf("agent_id = $%d", argPos))
		args = append(args, *req.AgentID)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM leads %s", whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM leads %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		leadColumns, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *lead)
	}
	return result, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, lead Lead) (int64, error) {
	const query = `
		INSERT INTO leads (name, email, phone, source, status, agent_id, property_id, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	var id int64
	err := r.db.QueryRow(ctx, query,
		lead.Name,
		lead.Email,
		lead.Phone,
		lead.Source,
		lead.Status,
		lead.AgentID,
		lead.PropertyID,
		lead.Notes,
		lead.CreatedBy,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]any, scope authz.Predicate) error {
	query := "UPDATE leads SET updated_at = NOW()"
	var args []any
	argPos := 1

	for _, col := range []string{"name", "email", "phone", "source", "status", "agent_id", "property_id", "notes"} {
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
	query := "DELETE FROM leads WHERE id = $1"
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

func scanLead(row pgx.Row) (*Lead, error) {
	var l Lead
	var email, phone, notes pgtype.Text
	var agentID, propertyID pgtype.Int8
	var createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(
		&l.ID, &l.Name, &email, &phone, &l.Source, &l.Status,
		&agentID, &propertyID, &notes, &l.CreatedBy, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if email.Valid {
		l.Email = &email.String
	}
	if phone.Valid {
		l.Phone = &phone.String
	}
	if notes.Valid {
		l.Notes = &notes.String
	}
	if agentID.Valid {
		l.AgentID = &agentID.Int64
	}
	if propertyID.Valid {
		l.PropertyID = &propertyID.Int64
	}
	if createdAt.Valid {
		l.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		l.UpdatedAt = updatedAt.Time
	}
	return &l, nil
}
