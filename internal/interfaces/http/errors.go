package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jaldana18/inventory-ledger-api/internal/application/dto"
	"github.com/jaldana18/inventory-ledger-api/internal/application/ledger"
	"github.com/jaldana18/inventory-ledger-api/internal/domain"
)

// writeDomainError mapea errores de dominio a respuestas HTTP con código
// estable. El frontend enruta por Code; Details lleva los datos accionables.
func writeDomainError(c *fiber.Ctx, err error) error {
	var insuf *domain.InsufficientStockError
	if errors.As(err, &insuf) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: "stock insuficiente para la operación",
			Details: map[string]any{
				"product_id":   insuf.ProductID,
				"warehouse_id": insuf.WarehouseID,
				"available":    insuf.Available,
				"requested":    insuf.Requested,
			},
		})
	}
	var denied *domain.WarehouseAccessDeniedError
	if errors.As(err, &denied) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code:    "WAREHOUSE_ACCESS_DENIED",
			Message: "no tienes acceso a la bodega solicitada",
			Details: map[string]any{"warehouse_id": denied.WarehouseID},
		})
	}
	var invalidTransfer *domain.InvalidTransferError
	if errors.As(err, &invalidTransfer) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "INVALID_TRANSFER",
			Message: invalidTransfer.Reason,
		})
	}
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: validation.Detail,
		})
	}

	switch {
	case errors.Is(err, domain.ErrNoOpAdjustment):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "NO_OP_ADJUSTMENT",
			Message: "el stock ya tiene el valor solicitado",
		})
	case errors.Is(err, domain.ErrWarehouseInactive):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "WAREHOUSE_INACTIVE",
			Message: "la bodega está inactiva",
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "datos inválidos",
		})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "recurso no encontrado",
		})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "EMAIL_ALREADY_EXISTS",
			Message: "el email ya está registrado en la empresa",
		})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "DUPLICATE",
			Message: "el recurso ya existe",
		})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Code:    "UNAUTHORIZED",
			Message: "credenciales inválidas",
		})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code:    "FORBIDDEN",
			Message: "acceso denegado al recurso",
		})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "CONFLICT",
			Message: "conflicto con el estado actual",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Code:    "INTERNAL",
		Message: "error interno",
	})
}

// bulkLineError mapea una línea rechazada de una operación masiva usando la
// misma taxonomía de códigos que writeDomainError.
func bulkLineError(f ledger.BulkLineFailure) dto.BulkLineError {
	out := dto.BulkLineError{Index: f.Index, ProductID: f.ProductID}

	var insuf *domain.InsufficientStockError
	var validation *domain.ValidationError
	switch {
	case errors.As(f.Err, &insuf):
		out.Code = "INSUFFICIENT_STOCK"
		out.Message = "stock insuficiente para la operación"
		out.Details = map[string]any{
			"available": insuf.Available,
			"requested": insuf.Requested,
		}
	case errors.As(f.Err, &validation):
		out.Code = "VALIDATION"
		out.Message = validation.Detail
	case errors.Is(f.Err, domain.ErrNotFound):
		out.Code = "NOT_FOUND"
		out.Message = "producto no encontrado"
	default:
		out.Code = "VALIDATION"
		out.Message = f.Err.Error()
	}
	return out
}
