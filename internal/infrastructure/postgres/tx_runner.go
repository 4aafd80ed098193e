package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/catalogo-api/internal/domain"
)

// runInTx inicia una transacción (o savepoint si q ya es una tx), ejecuta fn y hace Commit o Rollback.
func runInTx(ctx context.Context, q Querier, fn func(tx pgx.Tx) error) error {
	tx, err := q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// patchRow lee la fila id con bloqueo, aplica el patch en memoria y la reescribe,
// todo en una transacción. domain.ErrNotFound si la fila no existe.
func patchRow[T any](
	ctx context.Context,
	q Querier,
	table string,
	selectSQL string,
	id string,
	scan func(pgx.Row) (T, error),
	apply func(*T),
	write func(ctx context.Context, tx pgx.Tx, row T) (T, error),
) (T, error) {
	var out T
	err := runInTx(ctx, q, func(tx pgx.Tx) error {
		row, err := scan(tx.QueryRow(ctx, selectSQL+" WHERE id = $1 FOR UPDATE", id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get %s: %w", table, err)
		}
		apply(&row)
		out, err = write(ctx, tx, row)
		if err != nil {
			return fmt.Errorf("update %s: %w", table, err)
		}
		return nil
	})
	return out, err
}

// deleteRow borra por ID; un ID inexistente no es error.
func deleteRow(ctx context.Context, q Querier, table, id string) error {
	if _, err := q.Exec(ctx, "DELETE FROM "+table+" WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return nil
}

// collect recorre rows aplicando scan; devuelve una lista vacía (no nil) si no hay filas.
func collect[T any](rows pgx.Rows, table string, scan func(pgx.Row) (T, error)) ([]T, error) {
	defer rows.Close()
	list := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}
