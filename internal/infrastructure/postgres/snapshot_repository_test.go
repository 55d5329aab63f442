package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vitrina-api/internal/domain"
	"github.com/jhoicas/vitrina-api/internal/domain/entity"
)

// fakeQuerier simula una fila de snapshots en memoria.
type fakeQuerier struct {
	body    string
	hasRow  bool
	execErr error
	lastSQL string
}

type fakeRow struct {
	body string
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = []byte(r.body)
	return nil
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.lastSQL = sql
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	if len(args) == 2 {
		f.body = args[1].(string)
		f.hasRow = true
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeQuerier) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	if !f.hasRow {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{body: f.body}
}

func TestSnapshotRepo_SinFilaEsColeccionVacia(t *testing.T) {
	repo := NewSnapshotRepository[entity.Product](&fakeQuerier{}, "products")

	items, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestSnapshotRepo_SaveLoad(t *testing.T) {
	ctx := context.Background()
	q := &fakeQuerier{}
	repo := NewSnapshotRepository[entity.Cart](q, "carts")

	require.NoError(t, repo.Save(ctx, []entity.Cart{{ID: 2, Products: []entity.CartItem{{Product: 1, Quantity: 1}}}}))
	assert.Contains(t, q.lastSQL, "ON CONFLICT (name)")

	items, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].ID)
}

func TestSnapshotRepo_CuerpoCorrupto(t *testing.T) {
	repo := NewSnapshotRepository[entity.Product](&fakeQuerier{hasRow: true, body: "{"}, "products")

	_, err := repo.Load(context.Background())
	assert.True(t, errors.Is(err, domain.ErrStorage))
}

func TestEnsureSnapshotsTable_IgnoraCarreraDeCreacion(t *testing.T) {
	q := &fakeQuerier{execErr: &pgconn.PgError{Code: "23505"}}
	assert.NoError(t, EnsureSnapshotsTable(context.Background(), q))

	q.execErr = errors.New("connection refused")
	assert.True(t, errors.Is(EnsureSnapshotsTable(context.Background(), q), domain.ErrStorage))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, isUniqueViolation(nil))
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "42P07"}))
	assert.True(t, isUniqueViolation(errors.New(`ERROR: duplicate key value violates unique constraint "pg_type_typname_nsp_index" (SQLSTATE 23505)`)))
}
