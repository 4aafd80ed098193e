package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

var _ repository.QuotationRepository = (*QuotationRepo)(nil)

const quotationSelect = `
	SELECT id, customer_name, email, COALESCE(phone, ''), COALESCE(company, ''), items,
	       COALESCE(project_details, ''), status, created_at, updated_at
	FROM quotation_requests`

const quotationReturning = `
	RETURNING id, customer_name, email, COALESCE(phone, ''), COALESCE(company, ''), items,
	          COALESCE(project_details, ''), status, created_at, updated_at`

// QuotationRepo implementación de QuotationRepository. Items se guarda como JSONB.
type QuotationRepo struct {
	q Querier
}

func NewQuotationRepository(q Querier) *QuotationRepo {
	return &QuotationRepo{q: q}
}

func scanQuotation(row pgx.Row) (entity.QuotationRequest, error) {
	var q entity.QuotationRequest
	err := row.Scan(&q.ID, &q.CustomerName, &q.Email, &q.Phone, &q.Company, &q.Items,
		&q.ProjectDetails, &q.Status, &q.CreatedAt, &q.UpdatedAt)
	if q.Items == nil {
		q.Items = []entity.QuoteItem{}
	}
	return q, err
}

// List devuelve las solicitudes, las más recientes primero.
func (r *QuotationRepo) List(ctx context.Context) ([]entity.QuotationRequest, error) {
	rows, err := r.q.Query(ctx, quotationSelect+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list quotation_requests: %w", err)
	}
	return collect(rows, "quotation_request", scanQuotation)
}

func (r *QuotationRepo) Insert(ctx context.Context, q entity.QuotationRequest) (entity.QuotationRequest, error) {
	status := q.Status
	if status == "" {
		status = entity.QuotationPending
	}
	query := `
		INSERT INTO quotation_requests (customer_name, email, phone, company, items, project_details, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)` + quotationReturning
	row, err := scanQuotation(r.q.QueryRow(ctx, query,
		q.CustomerName, q.Email, nullIfEmpty(q.Phone), nullIfEmpty(q.Company), q.Items,
		nullIfEmpty(q.ProjectDetails), status,
	))
	if err != nil {
		return entity.QuotationRequest{}, fmt.Errorf("insert quotation_request: %w", err)
	}
	return row, nil
}

func (r *QuotationRepo) Update(ctx context.Context, id string, patch entity.QuotationPatch) (entity.QuotationRequest, error) {
	return patchRow(ctx, r.q, "quotation_request", quotationSelect, id, scanQuotation, patch.ApplyTo,
		func(ctx context.Context, tx pgx.Tx, q entity.QuotationRequest) (entity.QuotationRequest, error) {
			query := `
				UPDATE quotation_requests SET status = $2, project_details = $3, updated_at = now()
				WHERE id = $1` + quotationReturning
			return scanQuotation(tx.QueryRow(ctx, query, q.ID, q.Status, nullIfEmpty(q.ProjectDetails)))
		})
}

func (r *QuotationRepo) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, r.q, "quotation_requests", id)
}
