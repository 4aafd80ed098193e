package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

var (
	_ repository.VisitorRepository        = (*VisitorRepo)(nil)
	_ repository.VisitorSessionRepository = (*VisitorSessionRepo)(nil)
)

const visitorSelect = `
	SELECT id, name, email, COALESCE(phone, ''), COALESCE(company, ''), COALESCE(address, ''), created_at, updated_at
	FROM customers`

const visitorReturning = `
	RETURNING id, name, email, COALESCE(phone, ''), COALESCE(company, ''), COALESCE(address, ''), created_at, updated_at`

// visitorUpsert los campos opcionales vacíos llegan como NULL y no pisan lo guardado.
const visitorUpsert = `
	INSERT INTO customers (name, email, phone, company, address)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (email) DO UPDATE SET
		name = EXCLUDED.name,
		phone = COALESCE(EXCLUDED.phone, customers.phone),
		company = COALESCE(EXCLUDED.company, customers.company),
		address = COALESCE(EXCLUDED.address, customers.address),
		updated_at = now()`

// VisitorRepo implementación de VisitorRepository sobre la tabla customers.
type VisitorRepo struct {
	q Querier
}

func NewVisitorRepository(q Querier) *VisitorRepo {
	return &VisitorRepo{q: q}
}

func scanVisitor(row pgx.Row) (entity.Visitor, error) {
	var v entity.Visitor
	err := row.Scan(&v.ID, &v.Name, &v.Email, &v.Phone, &v.Company, &v.Address, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

func (r *VisitorRepo) List(ctx context.Context) ([]entity.Visitor, error) {
	rows, err := r.q.Query(ctx, visitorSelect+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return collect(rows, "customer", scanVisitor)
}

// Insert hace upsert por email: un visitante que se registra de nuevo conserva su ID.
func (r *VisitorRepo) Insert(ctx context.Context, v entity.Visitor) (entity.Visitor, error) {
	row, err := scanVisitor(r.q.QueryRow(ctx, visitorUpsert+visitorReturning,
		v.Name, v.Email, nullIfEmpty(v.Phone), nullIfEmpty(v.Company), nullIfEmpty(v.Address),
	))
	if err != nil {
		return entity.Visitor{}, fmt.Errorf("upsert customer: %w", err)
	}
	return row, nil
}

func (r *VisitorRepo) Update(ctx context.Context, id string, patch entity.VisitorPatch) (entity.Visitor, error) {
	return patchRow(ctx, r.q, "customer", visitorSelect, id, scanVisitor, patch.ApplyTo,
		func(ctx context.Context, tx pgx.Tx, v entity.Visitor) (entity.Visitor, error) {
			return scanVisitor(tx.QueryRow(ctx, `
				UPDATE customers SET name = $2, phone = $3, company = $4, address = $5, updated_at = now()
				WHERE id = $1`+visitorReturning,
				v.ID, v.Name, nullIfEmpty(v.Phone), nullIfEmpty(v.Company), nullIfEmpty(v.Address),
			))
		})
}

func (r *VisitorRepo) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, r.q, "customers", id)
}

// ── Sesiones ─────────────────────────────────────────────────────────────────

const sessionSelect = `
	SELECT id, customer_id, session_id, COALESCE(ip_address, ''), COALESCE(user_agent, ''),
	       COALESCE(page_visited, ''), COALESCE(referrer, ''), visit_duration, created_at
	FROM visitor_sessions`

const sessionReturning = `
	RETURNING id, customer_id, session_id, COALESCE(ip_address, ''), COALESCE(user_agent, ''),
	          COALESCE(page_visited, ''), COALESCE(referrer, ''), visit_duration, created_at`

// VisitorSessionRepo implementación de VisitorSessionRepository.
type VisitorSessionRepo struct {
	q Querier
}

func NewVisitorSessionRepository(q Querier) *VisitorSessionRepo {
	return &VisitorSessionRepo{q: q}
}

func scanSession(row pgx.Row) (entity.VisitorSession, error) {
	var s entity.VisitorSession
	err := row.Scan(&s.ID, &s.VisitorID, &s.SessionID, &s.IPAddress, &s.UserAgent,
		&s.PageVisited, &s.Referrer, &s.VisitDuration, &s.CreatedAt)
	return s, err
}

func (r *VisitorSessionRepo) List(ctx context.Context) ([]entity.VisitorSession, error) {
	rows, err := r.q.Query(ctx, sessionSelect+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list visitor_sessions: %w", err)
	}
	return collect(rows, "visitor_session", scanSession)
}

func (r *VisitorSessionRepo) Insert(ctx context.Context, s entity.VisitorSession) (entity.VisitorSession, error) {
	row, err := scanSession(r.q.QueryRow(ctx, `
		INSERT INTO visitor_sessions (customer_id, session_id, ip_address, user_agent, page_visited, referrer, visit_duration)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`+sessionReturning,
		s.VisitorID, s.SessionID, nullIfEmpty(s.IPAddress), nullIfEmpty(s.UserAgent),
		nullIfEmpty(s.PageVisited), nullIfEmpty(s.Referrer), s.VisitDuration,
	))
	if err != nil {
		return entity.VisitorSession{}, fmt.Errorf("insert visitor_session: %w", err)
	}
	return row, nil
}

func (r *VisitorSessionRepo) Update(ctx context.Context, id string, patch entity.SessionPatch) (entity.VisitorSession, error) {
	return patchRow(ctx, r.q, "visitor_session", sessionSelect, id, scanSession, patch.ApplyTo,
		func(ctx context.Context, tx pgx.Tx, s entity.VisitorSession) (entity.VisitorSession, error) {
			return scanSession(tx.QueryRow(ctx, `
				UPDATE visitor_sessions SET visit_duration = $2 WHERE id = $1`+sessionReturning,
				s.ID, s.VisitDuration,
			))
		})
}

func (r *VisitorSessionRepo) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, r.q, "visitor_sessions", id)
}
