package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

const categorySelect = `SELECT id, name, COALESCE(description, ''), created_at FROM categories`

// CategoryRepo implementación de CategoryRepository.
type CategoryRepo struct {
	q Querier
}

func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

func scanCategory(row pgx.Row) (entity.Category, error) {
	var c entity.Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt)
	return c, err
}

func (r *CategoryRepo) List(ctx context.Context) ([]entity.Category, error) {
	rows, err := r.q.Query(ctx, categorySelect+` ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return collect(rows, "category", scanCategory)
}

func (r *CategoryRepo) Insert(ctx context.Context, c entity.Category) (entity.Category, error) {
	row, err := scanCategory(r.q.QueryRow(ctx, `
		INSERT INTO categories (name, description) VALUES ($1, $2)
		RETURNING id, name, COALESCE(description, ''), created_at`,
		c.Name, nullIfEmpty(c.Description),
	))
	if err != nil {
		if isUniqueViolation(err) {
			return entity.Category{}, domain.ErrDuplicate
		}
		return entity.Category{}, fmt.Errorf("insert category: %w", err)
	}
	return row, nil
}

func (r *CategoryRepo) Update(ctx context.Context, id string, patch entity.CategoryPatch) (entity.Category, error) {
	return patchRow(ctx, r.q, "category", categorySelect, id, scanCategory, patch.ApplyTo,
		func(ctx context.Context, tx pgx.Tx, c entity.Category) (entity.Category, error) {
			return scanCategory(tx.QueryRow(ctx, `
				UPDATE categories SET name = $2, description = $3 WHERE id = $1
				RETURNING id, name, COALESCE(description, ''), created_at`,
				c.ID, c.Name, nullIfEmpty(c.Description),
			))
		})
}

func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, r.q, "categories", id)
}
