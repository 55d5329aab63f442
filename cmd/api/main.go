package main

import (
	"context"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/vitrina-api/internal/application/cart"
	"github.com/jhoicas/vitrina-api/internal/application/catalog"
	"github.com/jhoicas/vitrina-api/internal/application/realtime"
	"github.com/jhoicas/vitrina-api/internal/domain/entity"
	"github.com/jhoicas/vitrina-api/internal/domain/repository"
	"github.com/jhoicas/vitrina-api/internal/infrastructure/filestore"
	infrapdf "github.com/jhoicas/vitrina-api/internal/infrastructure/pdf"
	"github.com/jhoicas/vitrina-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/vitrina-api/internal/interfaces/http"
	"github.com/jhoicas/vitrina-api/pkg/config"
	"github.com/jhoicas/vitrina-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		productRepo repository.ProductRepository
		cartRepo    repository.CartRepository
	)
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.EnsureSnapshotsTable(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("crear tabla de snapshots")
		}
		productRepo = postgres.NewSnapshotRepository[entity.Product](pool, "products")
		cartRepo = postgres.NewSnapshotRepository[entity.Cart](pool, "carts")
	default:
		products, err := filestore.Open[entity.Product](cfg.Storage.ProductsFile)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Storage.ProductsFile).Msg("abrir archivo de productos")
		}
		carts, err := filestore.Open[entity.Cart](cfg.Storage.CartsFile)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Storage.CartsFile).Msg("abrir archivo de carritos")
		}
		productRepo, cartRepo = products, carts
	}

	if err := os.MkdirAll(cfg.Storage.UploadDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("path", cfg.Storage.UploadDir).Msg("crear directorio de miniaturas")
	}

	// Núcleo en tiempo real: store → gateway → hub
	productStore := catalog.NewProductStore(ctx, productRepo, log.Component("products"))
	hub := realtime.NewHub(cfg.Realtime.SendBuffer, log.Component("hub"))
	gateway := realtime.NewGateway(productStore, hub, log.Component("gateway"))

	// PDF: catálogo de productos
	pdfGenerator := infrapdf.NewCatalogPDFGenerator(cfg.App.Name)
	productUC := catalog.NewProductUseCase(productStore, gateway, pdfGenerator, log.Component("products"))
	cartUC := cart.NewUseCase(ctx, cartRepo, productStore, log.Component("carts"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Vitrina API",
		}))
	} else {
		log.Warn().Str("path", cfg.HTTP.SwaggerFile).Msg("swagger.json no encontrado; /docs deshabilitado")
	}

	app.Static("/static", cfg.HTTP.StaticDir)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "clients": hub.Len()})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC: productUC,
		CartUC:    cartUC,
		Gateway:   gateway,
		Logger:    log.Component("http"),
		UploadDir: cfg.Storage.UploadDir,
		UploadURL: uploadURL(cfg.HTTP.StaticDir, cfg.Storage.UploadDir),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	// Cerrar el hub termina los writers y con ellos las conexiones WebSocket abiertas.
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// uploadURL ruta pública de las miniaturas: UPLOAD_DIR relativo a STATIC_DIR bajo /static.
// Si UPLOAD_DIR está fuera de STATIC_DIR se publica en /static/img.
func uploadURL(staticDir, uploadDir string) string {
	rel, err := filepath.Rel(staticDir, uploadDir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "/static/img"
	}
	return path.Join("/static", filepath.ToSlash(rel))
}
