package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

var _ repository.FollowUpRepository = (*FollowUpRepo)(nil)

const followUpSelect = `SELECT id, quotation_id, message, follow_up_date, completed, created_at FROM follow_ups`

const followUpReturning = ` RETURNING id, quotation_id, message, follow_up_date, completed, created_at`

// FollowUpRepo implementación de FollowUpRepository.
type FollowUpRepo struct {
	q Querier
}

func NewFollowUpRepository(q Querier) *FollowUpRepo {
	return &FollowUpRepo{q: q}
}

func scanFollowUp(row pgx.Row) (entity.FollowUp, error) {
	var f entity.FollowUp
	err := row.Scan(&f.ID, &f.QuotationID, &f.Message, &f.FollowUpDate, &f.Completed, &f.CreatedAt)
	return f, err
}

// List devuelve los seguimientos por fecha programada ascendente.
func (r *FollowUpRepo) List(ctx context.Context) ([]entity.FollowUp, error) {
	rows, err := r.q.Query(ctx, followUpSelect+` ORDER BY follow_up_date ASC`)
	if err != nil {
		return nil, fmt.Errorf("list follow_ups: %w", err)
	}
	return collect(rows, "follow_up", scanFollowUp)
}

func (r *FollowUpRepo) Insert(ctx context.Context, f entity.FollowUp) (entity.FollowUp, error) {
	row, err := scanFollowUp(r.q.QueryRow(ctx, `
		INSERT INTO follow_ups (quotation_id, message, follow_up_date, completed)
		VALUES ($1, $2, $3, $4)`+followUpReturning,
		f.QuotationID, f.Message, f.FollowUpDate, f.Completed,
	))
	if err != nil {
		return entity.FollowUp{}, fmt.Errorf("insert follow_up: %w", err)
	}
	return row, nil
}

func (r *FollowUpRepo) Update(ctx context.Context, id string, patch entity.FollowUpPatch) (entity.FollowUp, error) {
	return patchRow(ctx, r.q, "follow_up", followUpSelect, id, scanFollowUp, patch.ApplyTo,
		func(ctx context.Context, tx pgx.Tx, f entity.FollowUp) (entity.FollowUp, error) {
			return scanFollowUp(tx.QueryRow(ctx, `
				UPDATE follow_ups SET message = $2, follow_up_date = $3, completed = $4
				WHERE id = $1`+followUpReturning,
				f.ID, f.Message, f.FollowUpDate, f.Completed,
			))
		})
}

func (r *FollowUpRepo) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, r.q, "follow_ups", id)
}
