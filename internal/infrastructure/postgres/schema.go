package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Tables son las tablas que espera el almacén remoto.
var Tables = []string{
	"products", "categories", "quotation_requests", "follow_ups",
	"customers", "visitor_sessions", "admin_users",
}

// Migrate aplica, en orden y cada una en su transacción, las migraciones embebidas
// que aún no figuran en schema_migrations. Devuelve los nombres aplicados.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) ([]string, error) {
	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name       TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return nil, fmt.Errorf("crear schema_migrations: %w", err)
	}

	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	applied := make([]string, 0)
	for _, name := range names {
		var exists bool
		if err := pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, name).Scan(&exists); err != nil {
			return applied, fmt.Errorf("consultar migración %s: %w", name, err)
		}
		if exists {
			continue
		}
		body, err := migrationsFS.ReadFile(name)
		if err != nil {
			return applied, err
		}
		err = runInTx(ctx, pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, string(body)); err != nil {
				return fmt.Errorf("aplicar %s: %w", name, err)
			}
			_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, name)
			return err
		})
		if err != nil {
			return applied, err
		}
		log.Info().Str("migration", name).Msg("migración aplicada")
		applied = append(applied, name)
	}
	return applied, nil
}

// TableStatus indica, por tabla esperada, si existe en el almacén remoto.
func TableStatus(ctx context.Context, q Querier) (map[string]bool, error) {
	out := make(map[string]bool, len(Tables))
	for _, t := range Tables {
		var reg *string
		if err := q.QueryRow(ctx, `SELECT to_regclass($1)::text`, "public."+t).Scan(&reg); err != nil {
			return nil, fmt.Errorf("verificar tabla %s: %w", t, err)
		}
		out[t] = reg != nil
	}
	return out, nil
}
