package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/swaggo/swag"

	_ "github.com/jhoicas/vitrina-api/docs"
	"github.com/jhoicas/vitrina-api/internal/application/cart"
	"github.com/jhoicas/vitrina-api/internal/application/catalog"
	"github.com/jhoicas/vitrina-api/internal/application/realtime"
	"github.com/jhoicas/vitrina-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC *catalog.ProductUseCase
	CartUC    *cart.UseCase
	Gateway   *realtime.Gateway
	Logger    *logger.Logger
	UploadDir string
	UploadURL string
}

// Router registra las rutas de la API y el endpoint en tiempo real.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestLogger(deps.Logger))
	api := app.Group("/api")

	// Documento OpenAPI registrado por el paquete docs
	api.Get("/docs.json", DocsJSON)

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.UploadDir, deps.UploadURL)
	products.Get("/", productHandler.List)
	products.Get("/catalog.pdf", productHandler.CatalogPDF)
	products.Get("/:pid", productHandler.GetByID)
	products.Post("/", productHandler.Create)
	products.Put("/:pid", productHandler.Update)
	products.Delete("/:pid", productHandler.Delete)

	// Carts
	carts := api.Group("/carts")
	cartHandler := NewCartHandler(deps.CartUC)
	carts.Get("/", cartHandler.List)
	carts.Post("/", cartHandler.Create)
	carts.Get("/:cid", cartHandler.GetByID)
	carts.Post("/:cid/product/:pid", cartHandler.AddProduct)

	// Sincronización de productos en tiempo real
	rt := NewRealtimeHandler(deps.Gateway, deps.Logger)
	app.Get("/ws", rt.Upgrade, rt.Serve())
}

// DocsJSON godoc
// @Summary      Documento OpenAPI
// @Tags         docs
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/docs.json [get]
func DocsJSON(c *fiber.Ctx) error {
	doc, err := swag.ReadDoc()
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.SendString(doc)
}
