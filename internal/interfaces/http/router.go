package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jaldana18/inventory-ledger-api/internal/application/auth"
	"github.com/jaldana18/inventory-ledger-api/internal/application/ledger"
	"github.com/jaldana18/inventory-ledger-api/internal/application/query"
	"github.com/jaldana18/inventory-ledger-api/internal/application/usecase"
	"github.com/jaldana18/inventory-ledger-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC   *usecase.CompanyUseCase
	WarehouseUC *usecase.WarehouseUseCase
	ProductUC   *usecase.ProductUseCase
	Engine      *ledger.Engine
	QueryUC     *query.Usecase
	AuthUC      *auth.AuthUseCase
	Idempotency ledger.IdempotencyStore // nil deshabilita reintentos idempotentes
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies: el alta es pública (arranque del tenant); la consulta no.
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	api.Post("/companies", companyHandler.Create)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin, entity.RoleManager)

	protected.Get("/companies/:id", companyHandler.GetByID)

	// Warehouses: lectura para todos, mutaciones solo admin/manager
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	queryHandler := NewQueryHandler(deps.QueryUC)
	warehouses.Post("/", adminOnly, warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", adminOnly, warehouseHandler.Update)
	warehouses.Delete("/:id", adminOnly, warehouseHandler.Delete)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", adminOnly, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Inventory: el motor de transacciones y las consultas del ledger
	invGroup := protected.Group("/inventory")
	txHandler := NewTransactionHandler(deps.Engine, deps.Idempotency)
	invGroup.Post("/transactions", txHandler.Register)
	invGroup.Post("/adjust", txHandler.Adjust)
	invGroup.Post("/transfer", adminOnly, txHandler.Transfer)
	invGroup.Post("/bulk/inbound", txHandler.BulkInbound)
	invGroup.Post("/bulk/outbound", txHandler.BulkOutbound)

	invGroup.Get("/stock/:productId/warehouse/:warehouseId", queryHandler.CurrentStock)
	invGroup.Get("/stock/:productId", queryHandler.ProductStock)
	invGroup.Get("/warehouses/:id/summary", queryHandler.WarehouseSummary)
	invGroup.Get("/low-stock", queryHandler.LowStock)
	invGroup.Get("/transactions", queryHandler.History)
	invGroup.Get("/transactions/:id", queryHandler.GetTransaction)
}
