package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productSelect = `
	SELECT id, name, category, price, COALESCE(image, ''), COALESCE(description, ''),
	       COALESCE(specifications, '{}'), status, featured, created_at, updated_at
	FROM products`

const productReturning = `
	RETURNING id, name, category, price, COALESCE(image, ''), COALESCE(description, ''),
	          COALESCE(specifications, '{}'), status, featured, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Image, &p.Description,
		&p.Specifications, &p.Status, &p.Featured, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// List devuelve todos los productos, los más recientes primero.
func (r *ProductRepo) List(ctx context.Context) ([]entity.Product, error) {
	rows, err := r.q.Query(ctx, productSelect+` ORDER BY created_at DESC`)
	if err != nil {
		if isUndefinedTable(err) {
			return nil, fmt.Errorf("list products: tabla inexistente, ejecutar migraciones: %w", err)
		}
		return nil, fmt.Errorf("list products: %w", err)
	}
	return collect(rows, "product", scanProduct)
}

// Insert persiste un producto; ID y timestamps los asigna la base.
func (r *ProductRepo) Insert(ctx context.Context, p entity.Product) (entity.Product, error) {
	query := `
		INSERT INTO products (name, category, price, image, description, specifications, status, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)` + productReturning
	row, err := scanProduct(r.q.QueryRow(ctx, query,
		p.Name, p.Category, p.Price, nullIfEmpty(p.Image), nullIfEmpty(p.Description),
		p.Specifications, p.Status, p.Featured,
	))
	if err != nil {
		return entity.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return row, nil
}

// Update aplica el patch sobre la fila id. domain.ErrNotFound si no existe.
func (r *ProductRepo) Update(ctx context.Context, id string, patch entity.ProductPatch) (entity.Product, error) {
	return patchRow(ctx, r.q, "product", productSelect, id, scanProduct, patch.ApplyTo,
		func(ctx context.Context, tx pgx.Tx, p entity.Product) (entity.Product, error) {
			query := `
				UPDATE products SET name = $2, category = $3, price = $4, image = $5, description = $6,
				       specifications = $7, status = $8, featured = $9, updated_at = now()
				WHERE id = $1` + productReturning
			return scanProduct(tx.QueryRow(ctx, query,
				p.ID, p.Name, p.Category, p.Price, nullIfEmpty(p.Image), nullIfEmpty(p.Description),
				p.Specifications, p.Status, p.Featured,
			))
		})
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, r.q, "products", id)
}
