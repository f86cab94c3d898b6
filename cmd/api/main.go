package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/jaldana18/inventory-ledger-api/internal/application/auth"
	"github.com/jaldana18/inventory-ledger-api/internal/application/ledger"
	"github.com/jaldana18/inventory-ledger-api/internal/application/query"
	"github.com/jaldana18/inventory-ledger-api/internal/application/usecase"
	"github.com/jaldana18/inventory-ledger-api/internal/infrastructure/postgres"
	"github.com/jaldana18/inventory-ledger-api/internal/infrastructure/redisstore"
	httpRouter "github.com/jaldana18/inventory-ledger-api/internal/interfaces/http"
	"github.com/jaldana18/inventory-ledger-api/pkg/config"
	"github.com/jaldana18/inventory-ledger-api/pkg/logger"
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
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	txRepo := postgres.NewTransactionRepository(pool)
	queryRepo := postgres.NewQueryRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Redis es opcional: sin él la API funciona, pero los reintentos con
	// X-Operation-Id dejan de ser idempotentes.
	var idemStore ledger.IdempotencyStore
	if cfg.Redis.Enabled() {
		store, err := redisstore.NewIdempotencyStore(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer store.Close()
		idemStore = store
		log.Info().Msg("almacén de idempotencia habilitado")
	} else {
		log.Warn().Msg("Redis no configurado: reintentos idempotentes deshabilitados")
	}

	lowStock, err := decimal.NewFromString(cfg.Inventory.LowStockThreshold)
	if err != nil {
		log.Fatal().Err(err).Str("valor", cfg.Inventory.LowStockThreshold).Msg("LOW_STOCK_THRESHOLD inválido")
	}

	engine := ledger.NewEngine(txRunner, productRepo, warehouseRepo)
	queryUC := query.NewUsecase(queryRepo, stockRepo, txRepo, productRepo, warehouseRepo, lowStock)
	companyUC := usecase.NewCompanyUseCase(companyRepo)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo, txRepo, txRunner)
	productUC := usecase.NewProductUseCase(productRepo, stockRepo)
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, warehouseRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventory Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:   companyUC,
		WarehouseUC: warehouseUC,
		ProductUC:   productUC,
		Engine:      engine,
		QueryUC:     queryUC,
		AuthUC:      authUC,
		Idempotency: idemStore,
		JWTSecret:   cfg.JWT.Secret,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
