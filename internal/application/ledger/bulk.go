package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jaldana18/inventory-ledger-api/internal/domain"
	"github.com/jaldana18/inventory-ledger-api/internal/domain/entity"
	"github.com/jaldana18/inventory-ledger-api/internal/domain/policy"
	"github.com/jaldana18/inventory-ledger-api/internal/domain/repository"
)

// BulkLine una línea de una operación masiva contra una misma bodega.
type BulkLine struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitCost  *decimal.Decimal
}

// BulkInput operación masiva: secuencia ordenada de líneas de un solo producto
// cada una, todas contra la misma bodega y con la misma razón.
type BulkInput struct {
	WarehouseID string
	Reason      string
	Notes       string
	Items       []BulkLine
}

// BulkLineFailure una línea rechazada, con su posición y el error de dominio.
type BulkLineFailure struct {
	Index     int
	ProductID string
	Err       error
}

// BulkResult resultado de la operación masiva. Política todo-o-nada: si Failed
// no está vacío, Created viene vacío y ninguna línea se aplicó al ledger.
type BulkResult struct {
	Created []*entity.StockTransaction
	Failed  []BulkLineFailure
}

// errBulkRejected aborta la transacción de BD cuando alguna línea falló;
// el detalle por línea viaja en BulkResult, no en este error.
var errBulkRejected = errors.New("operación masiva rechazada")

// BulkInbound aplica una secuencia de entradas contra una bodega, todo-o-nada.
func (e *Engine) BulkInbound(ctx context.Context, actor entity.Actor, in BulkInput) (*BulkResult, error) {
	if !entity.InboundReasons[in.Reason] {
		return nil, &domain.ValidationError{Detail: "razón de entrada desconocida: " + in.Reason}
	}
	return e.runBulk(ctx, actor, in, entity.TxTypeIn)
}

// BulkOutbound aplica una secuencia de salidas contra una bodega, todo-o-nada.
// La suficiencia de stock de cada línea se valida bajo bloqueo antes de
// confirmar cualquiera.
func (e *Engine) BulkOutbound(ctx context.Context, actor entity.Actor, in BulkInput) (*BulkResult, error) {
	if !entity.OutboundReasons[in.Reason] {
		return nil, &domain.ValidationError{Detail: "razón de salida desconocida: " + in.Reason}
	}
	return e.runBulk(ctx, actor, in, entity.TxTypeOut)
}

func (e *Engine) runBulk(ctx context.Context, actor entity.Actor, in BulkInput, txType string) (*BulkResult, error) {
	if in.WarehouseID == "" {
		in.WarehouseID = policy.ResolveDefaultWarehouse(actor, "")
	}
	if len(in.Items) == 0 {
		return nil, &domain.ValidationError{Detail: "items no puede estar vacío"}
	}
	if err := e.resolveWarehouse(actor, in.WarehouseID); err != nil {
		return nil, err
	}

	// Validación de forma por línea, antes de abrir la transacción.
	result := &BulkResult{}
	for i, line := range in.Items {
		if !line.Quantity.GreaterThan(decimal.Zero) {
			result.Failed = append(result.Failed, BulkLineFailure{
				Index: i, ProductID: line.ProductID,
				Err: &domain.ValidationError{Detail: "quantity debe ser mayor que cero"},
			})
			continue
		}
		if _, err := e.resolveProduct(actor, line.ProductID, line.Quantity); err != nil {
			result.Failed = append(result.Failed, BulkLineFailure{Index: i, ProductID: line.ProductID, Err: err})
		}
	}
	if len(result.Failed) > 0 {
		return result, nil
	}

	correlationID := uuid.New().String()
	err := e.txRunner.Run(ctx, func(txRepo repository.TransactionRepository, stockRepo repository.StockRepository) error {
		for i, line := range in.Items {
			qty := line.Quantity
			if txType == entity.TxTypeOut {
				qty = qty.Neg()
			}
			// Cada línea relee la proyección bajo el bloqueo de la tx, así los
			// productos repetidos dentro del mismo bulk acumulan correctamente.
			tx, err := appendLocked(txRepo, stockRepo, appendInput{
				ProductID:     line.ProductID,
				WarehouseID:   in.WarehouseID,
				Type:          txType,
				Reason:        in.Reason,
				Quantity:      qty,
				UnitCost:      line.UnitCost,
				Notes:         in.Notes,
				ActorID:       actor.UserID,
				CorrelationID: correlationID,
			})
			if err != nil {
				var insuf *domain.InsufficientStockError
				if errors.As(err, &insuf) {
					// Error de dominio: registrar la línea y seguir evaluando las
					// demás para reportarlas todas; el rollback descarta lo escrito.
					result.Failed = append(result.Failed, BulkLineFailure{Index: i, ProductID: line.ProductID, Err: err})
					continue
				}
				// Error de infraestructura: abortar de inmediato.
				return err
			}
			result.Created = append(result.Created, tx)
		}
		if len(result.Failed) > 0 {
			return errBulkRejected
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errBulkRejected) {
			// Todo-o-nada: nada quedó aplicado.
			result.Created = nil
			return result, nil
		}
		return nil, err
	}
	return result, nil
}
