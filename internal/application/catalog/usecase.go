package catalog

import (
	"context"
	"fmt"

	"github.com/jhoicas/vitrina-api/internal/domain/entity"
	"github.com/jhoicas/vitrina-api/pkg/logger"
)

// Mensajes de éxito del CRUD HTTP.
const (
	MsgProductAdded   = "Product added."
	MsgProductUpdated = "Product updated."
	MsgProductDeleted = "Product deleted."
)

// Notifier recibe un aviso tras cada mutación HTTP exitosa (refresco de vistas en tiempo real).
type Notifier interface {
	Refresh(ctx context.Context)
}

// CatalogPDFGenerator genera el catálogo de productos en PDF.
type CatalogPDFGenerator interface {
	GenerateCatalogPDF(ctx context.Context, products []entity.Product) ([]byte, error)
}

type nopNotifier struct{}

func (nopNotifier) Refresh(context.Context) {}

// ProductUseCase expone el CRUD de productos a la capa HTTP.
type ProductUseCase struct {
	store    *ProductStore
	notifier Notifier
	pdf      CatalogPDFGenerator
	log      *logger.Logger
}

// NewProductUseCase construye el caso de uso. notifier y pdf pueden ser nil.
func NewProductUseCase(store *ProductStore, notifier Notifier, pdf CatalogPDFGenerator, log *logger.Logger) *ProductUseCase {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &ProductUseCase{store: store, notifier: notifier, pdf: pdf, log: log}
}

// List devuelve los productos; limit > 0 recorta el resultado a los primeros limit.
func (uc *ProductUseCase) List(ctx context.Context, limit int) ([]entity.Product, error) {
	products, err := uc.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && limit < len(products) {
		products = products[:limit]
	}
	return products, nil
}

// GetByID obtiene un producto por id.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int) (*entity.Product, error) {
	return uc.store.GetByID(ctx, id)
}

// Create valida el payload en modo alta y agrega el producto.
func (uc *ProductUseCase) Create(ctx context.Context, raw map[string]any) (*entity.Product, error) {
	f, err := ValidateProduct(raw, ModeCreate)
	if err != nil {
		return nil, err
	}
	return uc.Add(ctx, f)
}

// Add agrega un producto con campos ya validados (p. ej. tras guardar miniaturas subidas).
func (uc *ProductUseCase) Add(ctx context.Context, f Fields) (*entity.Product, error) {
	p, err := uc.store.Add(ctx, f)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int("product_id", p.ID).Str("code", p.Code).Msg("producto creado vía HTTP")
	uc.notifier.Refresh(ctx)
	return p, nil
}

// Update valida el payload en modo edición y mezcla los campos presentes.
func (uc *ProductUseCase) Update(ctx context.Context, id int, raw map[string]any) (*entity.Product, error) {
	f, err := ValidateProduct(raw, ModeUpdate)
	if err != nil {
		return nil, err
	}
	p, err := uc.store.Update(ctx, id, f)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int("product_id", id).Msg("producto actualizado vía HTTP")
	uc.notifier.Refresh(ctx)
	return p, nil
}

// Delete elimina un producto por id.
func (uc *ProductUseCase) Delete(ctx context.Context, id int) error {
	if err := uc.store.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Int("product_id", id).Msg("producto eliminado vía HTTP")
	uc.notifier.Refresh(ctx)
	return nil
}

// ExportCatalogPDF genera el catálogo completo en PDF.
func (uc *ProductUseCase) ExportCatalogPDF(ctx context.Context) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("catalog: generador de PDF no configurado")
	}
	products, err := uc.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateCatalogPDF(ctx, products)
}
