package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodigosDeError(t *testing.T) {
	unique := fmt.Errorf("crear usuario: %w", &pgconn.PgError{Code: codeUniqueViolation})
	fk := &pgconn.PgError{Code: codeForeignKeyViolation}

	assert.True(t, isUniqueViolation(unique), "se detecta aunque venga envuelto")
	assert.False(t, isForeignKeyViolation(unique))
	assert.True(t, isForeignKeyViolation(fk))
	assert.False(t, isUniqueViolation(errors.New("otro")))
	assert.True(t, isNoRows(fmt.Errorf("buscar: %w", pgx.ErrNoRows)))
}

// execRecorder registra las sentencias; Query y QueryRow no se usan al crear el esquema.
type execRecorder struct {
	stmts  []string
	failAt int
}

func (r *execRecorder) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	r.stmts = append(r.stmts, sql)
	if r.failAt > 0 && len(r.stmts) == r.failAt {
		return pgconn.CommandTag{}, errors.New("permiso denegado")
	}
	return pgconn.CommandTag{}, nil
}

func (r *execRecorder) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("no usado")
}

func (r *execRecorder) QueryRow(context.Context, string, ...any) pgx.Row { return nil }

func TestEnsureSchema_OrdenRespetaLlavesForaneas(t *testing.T) {
	rec := &execRecorder{}
	require.NoError(t, EnsureSchema(context.Background(), rec))
	require.Len(t, rec.stmts, len(schemaStatements))

	pos := func(table string) int {
		for i, s := range rec.stmts {
			if strings.Contains(s, "CREATE TABLE IF NOT EXISTS "+table+" ") {
				return i
			}
		}
		t.Fatalf("tabla %s no creada", table)
		return -1
	}
	assert.Less(t, pos("users"), pos("section_requests"))
	assert.Less(t, pos("sections"), pos("products"))
	assert.Less(t, pos("orders"), pos("order_items"))
	assert.Less(t, pos("products"), pos("order_items"))
}

func TestEnsureSchema_SeDetieneEnElPrimerError(t *testing.T) {
	rec := &execRecorder{failAt: 2}
	err := EnsureSchema(context.Background(), rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema statement 1")
	assert.Len(t, rec.stmts, 2)
}
