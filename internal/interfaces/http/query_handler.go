package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jaldana18/inventory-ledger-api/internal/application/dto"
	"github.com/jaldana18/inventory-ledger-api/internal/application/query"
	"github.com/jaldana18/inventory-ledger-api/internal/domain/repository"
)

// QueryHandler endpoints de solo lectura sobre el ledger y la proyección de
// stock. Ninguno modifica estado; no aceptan X-Operation-Id.
type QueryHandler struct {
	usecase *query.Usecase
}

// NewQueryHandler construye el handler.
func NewQueryHandler(usecase *query.Usecase) *QueryHandler {
	return &QueryHandler{usecase: usecase}
}

// CurrentStock godoc
// @Summary      Stock actual de un producto en una bodega
// @Description  Un par (producto, bodega) sin movimientos responde stock 0,
// @Description  no 404: ausencia de fila equivale a stock cero.
// @Tags         query
// @Security     Bearer
// @Produce      json
// @Param        productId    path  string  true  "Id del producto"
// @Param        warehouseId  path  string  true  "Id de la bodega"
// @Success      200  {object}  dto.CurrentStockResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{productId}/warehouse/{warehouseId} [get]
func (h *QueryHandler) CurrentStock(c *fiber.Ctx) error {
	resp, err := h.usecase.CurrentStock(c.Context(), ActorFromCtx(c), c.Params("productId"), c.Params("warehouseId"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(resp)
}

// ProductStock godoc
// @Summary      Desglose de stock de un producto por bodega
// @Description  Solo incluye las bodegas accesibles para el actor; el total
// @Description  suma únicamente lo visible.
// @Tags         query
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "Id del producto"
// @Success      200  {object}  dto.ProductStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{productId} [get]
func (h *QueryHandler) ProductStock(c *fiber.Ctx) error {
	resp, err := h.usecase.ProductStock(c.Context(), ActorFromCtx(c), c.Params("productId"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(resp)
}

// WarehouseSummary godoc
// @Summary      Resumen de una bodega para el dashboard
// @Tags         query
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Id de la bodega"
// @Success      200  {object}  dto.WarehouseSummaryResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/warehouses/{id}/summary [get]
func (h *QueryHandler) WarehouseSummary(c *fiber.Ctx) error {
	resp, err := h.usecase.WarehouseSummary(c.Context(), ActorFromCtx(c), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(resp)
}

// LowStock godoc
// @Summary      Productos bajo su umbral de stock
// @Description  El umbral efectivo por producto es minimum_stock, si no
// @Description  reorder_point, si no el umbral global configurado.
// @Tags         query
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LowStockItemDTO
// @Router       /api/inventory/low-stock [get]
func (h *QueryHandler) LowStock(c *fiber.Ctx) error {
	items, err := h.usecase.LowStock(c.Context(), ActorFromCtx(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(items)
}

// History godoc
// @Summary      Historial paginado del ledger
// @Tags         query
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "Filtrar por producto"
// @Param        warehouse_id  query  string  false  "Filtrar por bodega; usuarios sin acceso reciben 403"
// @Param        type          query  string  false  "Filtrar por tipo de movimiento"
// @Param        from          query  string  false  "Fecha inicial (RFC 3339)"
// @Param        to            query  string  false  "Fecha final (RFC 3339)"
// @Param        limit         query  int     false  "Tamaño de página (máx 100, por defecto 20)"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.TransactionListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory/transactions [get]
func (h *QueryHandler) History(c *fiber.Ctx) error {
	filter := repository.TransactionFilter{
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
		Type:        c.Query("type"),
	}
	for _, q := range []struct {
		name string
		dst  **time.Time
	}{{"from", &filter.From}, {"to", &filter.To}} {
		raw := c.Query(q.name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code:    "VALIDATION",
				Message: q.name + " debe ser una fecha RFC 3339",
			})
		}
		*q.dst = &t
	}

	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	resp, err := h.usecase.History(c.Context(), ActorFromCtx(c), filter, page)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(resp)
}

// GetTransaction godoc
// @Summary      Detalle de una fila del ledger
// @Tags         query
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Id de la transacción"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/transactions/{id} [get]
func (h *QueryHandler) GetTransaction(c *fiber.Ctx) error {
	resp, err := h.usecase.Transaction(c.Context(), ActorFromCtx(c), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(resp)
}
