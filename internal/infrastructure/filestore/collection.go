// Package filestore persiste colecciones como un arreglo JSON en un archivo local.
// Cada Save reescribe el archivo completo: se escribe a un temporal en el mismo
// directorio y se renombra, de modo que un lector nunca ve un archivo a medias.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jhoicas/vitrina-api/internal/domain"
	"github.com/jhoicas/vitrina-api/internal/domain/entity"
	"github.com/jhoicas/vitrina-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository = (*Collection[entity.Product])(nil)
	_ repository.CartRepository    = (*Collection[entity.Cart])(nil)
)

// Collection implementa repository.SnapshotRepository sobre un archivo JSON.
type Collection[T any] struct {
	path string
}

// Open prepara el archivo de la colección. Si no existe, crea el directorio y un arreglo vacío.
func Open[T any](path string) (*Collection[T], error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("filestore: crear directorio: %w", err)
	}
	c := &Collection[T]{path: path}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := c.Save(context.Background(), []T{}); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Path devuelve la ruta del archivo.
func (c *Collection[T]) Path() string { return c.path }

// Load lee y decodifica el arreglo completo.
func (c *Collection[T]) Load(_ context.Context) ([]T, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, domain.StorageError("read "+filepath.Base(c.path), err)
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, domain.StorageError("parse "+filepath.Base(c.path), err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Save serializa la colección entera con tabulaciones y la reemplaza de forma atómica.
func (c *Collection[T]) Save(_ context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "\t")
	if err != nil {
		return domain.StorageError("encode "+filepath.Base(c.path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return domain.StorageError("write "+filepath.Base(c.path), err)
	}
	defer os.Remove(tmp.Name()) // no-op tras el rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return domain.StorageError("write "+filepath.Base(c.path), err)
	}
	if err := tmp.Close(); err != nil {
		return domain.StorageError("write "+filepath.Base(c.path), err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return domain.StorageError("write "+filepath.Base(c.path), err)
	}
	return nil
}
