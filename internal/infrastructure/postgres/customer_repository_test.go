package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

// recordingQuerier guarda la última consulta de QueryRow.
type recordingQuerier struct {
	Querier
	sql  string
	args []any
}

func (q *recordingQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.sql, q.args = sql, args
	return errRow{err: errors.New("sin conexión")}
}

func TestVisitorRepo_UpsertConservaCamposOpcionales(t *testing.T) {
	q := &recordingQuerier{}
	repo := NewVisitorRepository(q)

	_, err := repo.Insert(context.Background(), entity.Visitor{Name: "Ana", Email: "ana@x.test"})
	require.Error(t, err)

	assert.Contains(t, q.sql, "ON CONFLICT (email) DO UPDATE")
	assert.Contains(t, q.sql, "phone = COALESCE(EXCLUDED.phone, customers.phone)")
	assert.Contains(t, q.sql, "company = COALESCE(EXCLUDED.company, customers.company)")
	assert.Contains(t, q.sql, "address = COALESCE(EXCLUDED.address, customers.address)")
	assert.NotContains(t, q.sql, "phone = EXCLUDED.phone")

	// vacíos viajan como NULL para que COALESCE conserve el valor guardado
	require.Len(t, q.args, 5)
	assert.Nil(t, q.args[2])
	assert.Nil(t, q.args[3])
	assert.Nil(t, q.args[4])
}
