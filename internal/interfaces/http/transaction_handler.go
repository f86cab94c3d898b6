package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jaldana18/inventory-ledger-api/internal/application/dto"
	"github.com/jaldana18/inventory-ledger-api/internal/application/ledger"
	"github.com/jaldana18/inventory-ledger-api/internal/domain"
	"github.com/jaldana18/inventory-ledger-api/internal/domain/entity"
	"github.com/jaldana18/inventory-ledger-api/pkg/validate"
)

// TransactionHandler endpoints mutantes del ledger: entradas, salidas,
// ajustes, traslados y operaciones masivas. Todos aceptan X-Operation-Id
// para reintentos idempotentes.
type TransactionHandler struct {
	engine *ledger.Engine
	idem   ledger.IdempotencyStore // nil si Redis no está configurado
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(engine *ledger.Engine, idem ledger.IdempotencyStore) *TransactionHandler {
	return &TransactionHandler{engine: engine, idem: idem}
}

// Register godoc
// @Summary      Registrar entrada o salida de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        X-Operation-Id  header  string  false  "Id de operación del cliente para reintentos idempotentes"
// @Param        body  body  dto.RegisterTransactionRequest  true  "type IN|OUT, product_id, warehouse_id, reason, quantity"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transactions [post]
func (h *TransactionHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	hit, idemKey := tryReplay(c, h.idem, "tx")
	if hit {
		return nil
	}

	actor := ActorFromCtx(c)
	var (
		created *entity.StockTransaction
		err     error
	)
	switch in.Type {
	case entity.TxTypeIn:
		created, err = h.engine.RegisterInbound(c.Context(), actor, ledger.InboundInput{
			ProductID:   in.ProductID,
			WarehouseID: in.WarehouseID,
			Reason:      in.Reason,
			Quantity:    in.Quantity,
			UnitCost:    in.UnitCost,
			Reference:   in.Reference,
			Notes:       in.Notes,
		})
	case entity.TxTypeOut:
		created, err = h.engine.RegisterOutbound(c.Context(), actor, ledger.OutboundInput{
			ProductID:   in.ProductID,
			WarehouseID: in.WarehouseID,
			Reason:      in.Reason,
			Quantity:    in.Quantity,
			Reference:   in.Reference,
			Notes:       in.Notes,
		})
	default:
		err = &domain.ValidationError{Detail: "type debe ser IN u OUT"}
	}
	if err != nil {
		return writeDomainError(c, err)
	}
	resp := dto.NewTransactionResponse(created)
	storeResult(c, h.idem, idemKey, fiber.StatusCreated, resp)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Adjust godoc
// @Summary      Ajustar el stock de un par (producto, bodega) a un valor absoluto
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        X-Operation-Id  header  string  false  "Id de operación del cliente para reintentos idempotentes"
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, warehouse_id, new_stock"
// @Success      200   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjust [post]
func (h *TransactionHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	hit, idemKey := tryReplay(c, h.idem, "adjust")
	if hit {
		return nil
	}
	created, err := h.engine.Adjust(c.Context(), ActorFromCtx(c), ledger.AdjustmentInput{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		NewStock:    in.NewStock,
		Notes:       in.Notes,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	resp := dto.NewTransactionResponse(created)
	storeResult(c, h.idem, idemKey, fiber.StatusOK, resp)
	return c.JSON(resp)
}

// Transfer godoc
// @Summary      Trasladar stock entre dos bodegas
// @Description  Escribe las dos patas (TRANSFER_OUT y TRANSFER_IN) con el mismo
// @Description  correlation_id en una sola transacción. Solo admin y manager.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        X-Operation-Id  header  string  false  "Id de operación del cliente para reintentos idempotentes"
// @Param        body  body  dto.TransferStockRequest  true  "product_id, from_warehouse_id, to_warehouse_id, quantity"
// @Success      200   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfer [post]
func (h *TransactionHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	hit, idemKey := tryReplay(c, h.idem, "transfer")
	if hit {
		return nil
	}
	result, err := h.engine.Transfer(c.Context(), ActorFromCtx(c), ledger.TransferInput{
		ProductID:       in.ProductID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Quantity:        in.Quantity,
		Reference:       in.Reference,
		Notes:           in.Notes,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	resp := dto.TransferResponse{
		OutTransaction: dto.NewTransactionResponse(result.Out),
		InTransaction:  dto.NewTransactionResponse(result.In),
	}
	storeResult(c, h.idem, idemKey, fiber.StatusOK, resp)
	return c.JSON(resp)
}

// BulkInbound godoc
// @Summary      Registrar entradas masivas contra una bodega (todo-o-nada)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        X-Operation-Id  header  string  false  "Id de operación del cliente para reintentos idempotentes"
// @Param        body  body  dto.BulkTransactionRequest  true  "warehouse_id, reason, items"
// @Success      201   {object}  dto.BulkTransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.BulkTransactionResponse
// @Router       /api/inventory/bulk/inbound [post]
func (h *TransactionHandler) BulkInbound(c *fiber.Ctx) error {
	return h.bulk(c, h.engine.BulkInbound, "bulk-in")
}

// BulkOutbound godoc
// @Summary      Registrar salidas masivas contra una bodega (todo-o-nada)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        X-Operation-Id  header  string  false  "Id de operación del cliente para reintentos idempotentes"
// @Param        body  body  dto.BulkTransactionRequest  true  "warehouse_id, reason, items"
// @Success      201   {object}  dto.BulkTransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.BulkTransactionResponse
// @Router       /api/inventory/bulk/outbound [post]
func (h *TransactionHandler) BulkOutbound(c *fiber.Ctx) error {
	return h.bulk(c, h.engine.BulkOutbound, "bulk-out")
}

func (h *TransactionHandler) bulk(
	c *fiber.Ctx,
	run func(ctx context.Context, actor entity.Actor, in ledger.BulkInput) (*ledger.BulkResult, error),
	scope string,
) error {
	var in dto.BulkTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	hit, idemKey := tryReplay(c, h.idem, scope)
	if hit {
		return nil
	}

	items := make([]ledger.BulkLine, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, ledger.BulkLine{ProductID: it.ProductID, Quantity: it.Quantity, UnitCost: it.UnitCost})
	}
	result, err := run(c.Context(), ActorFromCtx(c), ledger.BulkInput{
		WarehouseID: in.WarehouseID,
		Reason:      in.Reason,
		Notes:       in.Notes,
		Items:       items,
	})
	if err != nil {
		return writeDomainError(c, err)
	}

	resp := dto.BulkTransactionResponse{
		Created: dto.NewTransactionResponses(result.Created),
		Failed:  make([]dto.BulkLineError, 0, len(result.Failed)),
	}
	for _, f := range result.Failed {
		resp.Failed = append(resp.Failed, bulkLineError(f))
	}
	// Todo-o-nada: cualquier línea rechazada deja el lote completo sin aplicar.
	status := fiber.StatusCreated
	if len(resp.Failed) > 0 {
		status = fiber.StatusUnprocessableEntity
	} else {
		storeResult(c, h.idem, idemKey, status, resp)
	}
	return c.Status(status).JSON(resp)
}
