// Package catalog contiene la autoridad sobre la colección de productos:
// validación de payloads, asignación de ids, unicidad de code y persistencia write-through.
package catalog

import (
	"context"
	"sync"

	"github.com/jhoicas/vitrina-api/internal/application/seq"
	"github.com/jhoicas/vitrina-api/internal/domain"
	"github.com/jhoicas/vitrina-api/internal/domain/entity"
	"github.com/jhoicas/vitrina-api/internal/domain/repository"
	"github.com/jhoicas/vitrina-api/pkg/logger"
)

// ProductStore es la única autoridad sobre los productos y su representación persistida.
// Cada operación lee la colección completa, la modifica y la vuelve a escribir entera
// antes de responder; el mutex serializa ese ciclo entre goroutines.
type ProductStore struct {
	mu   sync.Mutex
	repo repository.ProductRepository
	ids  seq.Counter
	log  *logger.Logger
}

// NewProductStore construye el store y siembra el contador de ids antes de devolverlo,
// así ninguna petición ve un contador sin inicializar. Si la lectura falla se registra
// y el contador queda en 0.
func NewProductStore(ctx context.Context, repo repository.ProductRepository, log *logger.Logger) *ProductStore {
	s := &ProductStore{repo: repo, log: log}
	products, err := repo.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("no se pudo inicializar el siguiente id de producto; se usa 0")
		return s
	}
	s.ids = seq.Seed(productIDs(products)...)
	log.Debug().Int("next_id", s.ids.Peek()).Int("products", len(products)).Msg("store de productos listo")
	return s
}

// List devuelve la colección persistida actual.
func (s *ProductStore) List(ctx context.Context) ([]entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Load(ctx)
}

// GetByID obtiene un producto por id.
func (s *ProductStore) GetByID(ctx context.Context, id int) (*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	products, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexOf(products, id); i >= 0 {
		p := products[i]
		return &p, nil
	}
	return nil, domain.Errorf(domain.ErrNotFound, "That product doesn't exists.")
}

// Add agrega un producto con id nuevo, status=true y thumbnails=[] si no vinieron.
// Un code repetido se rechaza sin mutar la colección ni consumir id.
func (s *ProductStore) Add(ctx context.Context, f Fields) (*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	code := deref(f.Code)
	if codeTaken(products, code, -1) {
		return nil, domain.Errorf(domain.ErrConflict, "Error: code %s already exists.", code)
	}

	// Si el contador no se pudo sembrar al inicio, los ids persistidos siguen mandando.
	s.ids.Observe(productIDs(products)...)
	p := entity.Product{
		ID:         s.ids.Peek(),
		Status:     true,
		Thumbnails: []string{},
	}
	merge(&p, f)

	if err := s.repo.Save(ctx, append(products, p)); err != nil {
		return nil, err
	}
	s.ids.Next()
	return &p, nil
}

// Update mezcla solo los campos presentes en f; el id nunca cambia.
// Cambiar el code a uno de otro producto es un conflicto. Sin campos no se reescribe la colección.
func (s *ProductStore) Update(ctx context.Context, id int, f Fields) (*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(products, id)
	if i < 0 {
		return nil, domain.Errorf(domain.ErrNotFound, "Product with id %d not found.", id)
	}
	if f.Code != nil && codeTaken(products, *f.Code, id) {
		return nil, domain.Errorf(domain.ErrConflict, "Error: code %s already exists.", *f.Code)
	}
	if f.IsEmpty() {
		p := products[i]
		return &p, nil
	}

	merge(&products[i], f)
	if err := s.repo.Save(ctx, products); err != nil {
		return nil, err
	}
	p := products[i]
	return &p, nil
}

// Delete elimina el producto. El id no se reutiliza.
func (s *ProductStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(products, id)
	if i < 0 {
		return domain.Errorf(domain.ErrNotFound, "Product with id %d not found.", id)
	}
	products = append(products[:i], products[i+1:]...)
	return s.repo.Save(ctx, products)
}

func merge(p *entity.Product, f Fields) {
	if f.Title != nil {
		p.Title = *f.Title
	}
	if f.Description != nil {
		p.Description = *f.Description
	}
	if f.Code != nil {
		p.Code = *f.Code
	}
	if f.Price != nil {
		p.Price = *f.Price
	}
	if f.Stock != nil {
		p.Stock = *f.Stock
	}
	if f.Category != nil {
		p.Category = *f.Category
	}
	if f.Thumbnails != nil {
		p.Thumbnails = f.Thumbnails
	}
}

func indexOf(products []entity.Product, id int) int {
	for i := range products {
		if products[i].ID == id {
			return i
		}
	}
	return -1
}

// codeTaken indica si code pertenece a un producto distinto de exceptID.
func codeTaken(products []entity.Product, code string, exceptID int) bool {
	for _, p := range products {
		if p.Code == code && p.ID != exceptID {
			return true
		}
	}
	return false
}

func productIDs(products []entity.Product) []int {
	ids := make([]int, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
