// Package cart gestiona los carritos persistidos en archivo. No participa de la
// sincronización en tiempo real.
package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/vitrina-api/internal/application/seq"
	"github.com/jhoicas/vitrina-api/internal/domain"
	"github.com/jhoicas/vitrina-api/internal/domain/entity"
	"github.com/jhoicas/vitrina-api/internal/domain/repository"
	"github.com/jhoicas/vitrina-api/pkg/logger"
)

// Mensajes de éxito.
const MsgCartAdded = "Cart added."

// ProductLookup verifica que un producto exista antes de agregarlo a un carrito.
type ProductLookup interface {
	GetByID(ctx context.Context, id int) (*entity.Product, error)
}

// UseCase casos de uso de carritos. Misma disciplina que el store de productos:
// leer todo, mutar, escribir todo, bajo un mutex.
type UseCase struct {
	mu       sync.Mutex
	repo     repository.CartRepository
	products ProductLookup
	ids      seq.Counter
	log      *logger.Logger
}

// NewUseCase construye el caso de uso y siembra el contador de ids.
func NewUseCase(ctx context.Context, repo repository.CartRepository, products ProductLookup, log *logger.Logger) *UseCase {
	uc := &UseCase{repo: repo, products: products, log: log}
	carts, err := repo.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("no se pudo inicializar el siguiente id de carrito; se usa 0")
		return uc
	}
	uc.ids = seq.Seed(cartIDs(carts)...)
	return uc
}

// List devuelve todos los carritos.
func (uc *UseCase) List(ctx context.Context) ([]entity.Cart, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.repo.Load(ctx)
}

// GetByID obtiene un carrito por id.
func (uc *UseCase) GetByID(ctx context.Context, id int) (*entity.Cart, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	carts, err := uc.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexOf(carts, id); i >= 0 {
		c := carts[i]
		return &c, nil
	}
	return nil, domain.Errorf(domain.ErrNotFound, "That cart doesn't exists.")
}

// Create agrega un carrito vacío.
func (uc *UseCase) Create(ctx context.Context) (*entity.Cart, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	carts, err := uc.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	uc.ids.Observe(cartIDs(carts)...)
	c := entity.Cart{ID: uc.ids.Peek(), Products: []entity.CartItem{}}
	if err := uc.repo.Save(ctx, append(carts, c)); err != nil {
		return nil, err
	}
	uc.ids.Next()
	uc.log.Info().Int("cart_id", c.ID).Msg("carrito creado")
	return &c, nil
}

// AddProduct suma una unidad del producto al carrito. El producto debe existir.
// Devuelve el mensaje de éxito.
func (uc *UseCase) AddProduct(ctx context.Context, cartID, productID int) (string, error) {
	if _, err := uc.products.GetByID(ctx, productID); err != nil {
		return "", err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	carts, err := uc.repo.Load(ctx)
	if err != nil {
		return "", err
	}
	i := indexOf(carts, cartID)
	if i < 0 {
		return "", domain.Errorf(domain.ErrNotFound, "Cart with id %d not found.", cartID)
	}
	carts[i].Add(productID)
	if err := uc.repo.Save(ctx, carts); err != nil {
		return "", err
	}
	return fmt.Sprintf("Product %d added on cart %d.", productID, cartID), nil
}

func indexOf(carts []entity.Cart, id int) int {
	for i := range carts {
		if carts[i].ID == id {
			return i
		}
	}
	return -1
}

func cartIDs(carts []entity.Cart) []int {
	ids := make([]int, len(carts))
	for i, c := range carts {
		ids[i] = c.ID
	}
	return ids
}
