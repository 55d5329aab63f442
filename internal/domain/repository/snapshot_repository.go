package repository

import (
	"context"

	"github.com/jhoicas/vitrina-api/internal/domain/entity"
)

// SnapshotRepository define el puerto de persistencia de una colección completa (DIP).
// Load devuelve el arreglo persistido; Save lo reemplaza entero (sin escrituras parciales).
// Los fallos se reportan como domain.ErrStorage.
type SnapshotRepository[T any] interface {
	Load(ctx context.Context) ([]T, error)
	Save(ctx context.Context, items []T) error
}

// ProductRepository snapshot de la colección de productos.
type ProductRepository = SnapshotRepository[entity.Product]

// CartRepository snapshot de la colección de carritos.
type CartRepository = SnapshotRepository[entity.Cart]
