package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/vitrina-api/internal/domain"
	"github.com/jhoicas/vitrina-api/internal/domain/entity"
	"github.com/jhoicas/vitrina-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository = (*SnapshotRepo[entity.Product])(nil)
	_ repository.CartRepository    = (*SnapshotRepo[entity.Cart])(nil)
)

// Querier abstrae pool o tx de pgx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const createSnapshotsTable = `
	CREATE TABLE IF NOT EXISTS snapshots (
		name       TEXT PRIMARY KEY,
		body       JSONB NOT NULL DEFAULT '[]'::jsonb,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// EnsureSnapshotsTable crea la tabla de snapshots si no existe.
// Dos procesos arrancando a la vez pueden chocar en pg_type (23505); se ignora.
func EnsureSnapshotsTable(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, createSnapshotsTable); err != nil && !isUniqueViolation(err) {
		return domain.StorageError("create snapshots table", err)
	}
	return nil
}

// SnapshotRepo guarda una colección completa como un arreglo JSONB en una sola fila.
// Misma semántica que el archivo: cada Save reemplaza el arreglo entero.
type SnapshotRepo[T any] struct {
	q    Querier
	name string
}

// NewSnapshotRepository construye el adaptador para la colección indicada ("products", "carts").
func NewSnapshotRepository[T any](q Querier, name string) *SnapshotRepo[T] {
	return &SnapshotRepo[T]{q: q, name: name}
}

// Load lee el arreglo; una fila inexistente equivale a colección vacía.
func (r *SnapshotRepo[T]) Load(ctx context.Context) ([]T, error) {
	var body []byte
	err := r.q.QueryRow(ctx, `SELECT body FROM snapshots WHERE name = $1`, r.name).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []T{}, nil
		}
		return nil, domain.StorageError("read "+r.name, err)
	}
	var items []T
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, domain.StorageError("parse "+r.name, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Save reemplaza el arreglo persistido (upsert de la fila).
func (r *SnapshotRepo[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	body, err := json.Marshal(items)
	if err != nil {
		return domain.StorageError("encode "+r.name, err)
	}
	query := `
		INSERT INTO snapshots (name, body, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`
	if _, err := r.q.Exec(ctx, query, r.name, string(body)); err != nil {
		return domain.StorageError("write "+r.name, err)
	}
	return nil
}
