package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jaldana18/inventory-ledger-api/internal/domain"
	"github.com/jaldana18/inventory-ledger-api/internal/domain/entity"
	"github.com/jaldana18/inventory-ledger-api/internal/domain/policy"
	"github.com/jaldana18/inventory-ledger-api/internal/domain/repository"
)

// Engine es el motor de transacciones de inventario. Valida y aplica entradas,
// salidas, ajustes y traslados contra el ledger, de forma transaccional y con
// bloqueo de fila por par (producto, bodega). Cada operación es atómica:
// se aplica completa o se rechaza completa, nunca a medias.
//
// La política de acceso por bodega se evalúa aquí, antes de tocar el ledger:
// el chequeo del cliente es solo una ayuda de UI, nunca la barrera de seguridad.
type Engine struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
}

// NewEngine construye el motor.
func NewEngine(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
) *Engine {
	return &Engine{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
	}
}

// InboundInput entrada de stock (compra, devolución, stock inicial, hallazgo).
type InboundInput struct {
	ProductID   string
	WarehouseID string
	Reason      string
	Quantity    decimal.Decimal
	UnitCost    *decimal.Decimal
	Reference   string
	Notes       string
}

// OutboundInput salida de stock (venta, daño, pérdida).
type OutboundInput struct {
	ProductID   string
	WarehouseID string
	Reason      string
	Quantity    decimal.Decimal
	Reference   string
	Notes       string
}

// AdjustmentInput ajuste a un valor absoluto objetivo (no un delta): el motor
// calcula el delta bajo bloqueo para que una carrera entre lectura y envío no
// corrompa el resultado.
type AdjustmentInput struct {
	ProductID   string
	WarehouseID string
	NewStock    decimal.Decimal
	Notes       string
}

// TransferInput traslado entre dos bodegas distintas.
type TransferInput struct {
	ProductID       string
	FromWarehouseID string
	ToWarehouseID   string
	Quantity        decimal.Decimal
	Reference       string
	Notes           string
}

// TransferResult las dos patas de un traslado exitoso.
type TransferResult struct {
	Out *entity.StockTransaction
	In  *entity.StockTransaction
}

// RegisterInbound registra una entrada. Siempre procede contra la no-negatividad
// (suma stock); aun así se ejecuta bajo bloqueo para que previous/new queden exactos.
func (e *Engine) RegisterInbound(ctx context.Context, actor entity.Actor, in InboundInput) (*entity.StockTransaction, error) {
	if in.WarehouseID == "" {
		in.WarehouseID = policy.ResolveDefaultWarehouse(actor, "")
	}
	if !entity.InboundReasons[in.Reason] {
		return nil, &domain.ValidationError{Detail: "razón de entrada desconocida: " + in.Reason}
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, &domain.ValidationError{Detail: "quantity debe ser mayor que cero"}
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return nil, &domain.ValidationError{Detail: "unit_cost no puede ser negativo"}
	}
	if _, err := e.resolveProduct(actor, in.ProductID, in.Quantity); err != nil {
		return nil, err
	}
	if err := e.resolveWarehouse(actor, in.WarehouseID); err != nil {
		return nil, err
	}

	var created *entity.StockTransaction
	err := e.txRunner.Run(ctx, func(txRepo repository.TransactionRepository, stockRepo repository.StockRepository) error {
		tx, err := appendLocked(txRepo, stockRepo, appendInput{
			ProductID:   in.ProductID,
			WarehouseID: in.WarehouseID,
			Type:        entity.TxTypeIn,
			Reason:      in.Reason,
			Quantity:    in.Quantity,
			UnitCost:    in.UnitCost,
			Reference:   in.Reference,
			Notes:       in.Notes,
			ActorID:     actor.UserID,
		})
		if err != nil {
			return err
		}
		created = tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// RegisterOutbound registra una salida. Verifica la suficiencia de stock bajo
// bloqueo de fila: si el nuevo stock quedara negativo, rechaza con
// InsufficientStockError sin escribir nada.
func (e *Engine) RegisterOutbound(ctx context.Context, actor entity.Actor, in OutboundInput) (*entity.StockTransaction, error) {
	if in.WarehouseID == "" {
		in.WarehouseID = policy.ResolveDefaultWarehouse(actor, "")
	}
	if !entity.OutboundReasons[in.Reason] {
		return nil, &domain.ValidationError{Detail: "razón de salida desconocida: " + in.Reason}
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, &domain.ValidationError{Detail: "quantity debe ser mayor que cero"}
	}
	if _, err := e.resolveProduct(actor, in.ProductID, in.Quantity); err != nil {
		return nil, err
	}
	if err := e.resolveWarehouse(actor, in.WarehouseID); err != nil {
		return nil, err
	}

	var created *entity.StockTransaction
	err := e.txRunner.Run(ctx, func(txRepo repository.TransactionRepository, stockRepo repository.StockRepository) error {
		tx, err := appendLocked(txRepo, stockRepo, appendInput{
			ProductID:   in.ProductID,
			WarehouseID: in.WarehouseID,
			Type:        entity.TxTypeOut,
			Reason:      in.Reason,
			Quantity:    in.Quantity.Neg(),
			Reference:   in.Reference,
			Notes:       in.Notes,
			ActorID:     actor.UserID,
		})
		if err != nil {
			return err
		}
		created = tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Adjust lleva el stock del par al valor absoluto NewStock. El delta se calcula
// bajo bloqueo; un delta de cero se rechaza como ErrNoOpAdjustment: un ajuste
// debe representar un cambio real.
func (e *Engine) Adjust(ctx context.Context, actor entity.Actor, in AdjustmentInput) (*entity.StockTransaction, error) {
	if in.WarehouseID == "" {
		in.WarehouseID = policy.ResolveDefaultWarehouse(actor, "")
	}
	if in.NewStock.IsNegative() {
		return nil, &domain.ValidationError{Detail: "new_stock no puede ser negativo"}
	}
	if _, err := e.resolveProduct(actor, in.ProductID, in.NewStock); err != nil {
		return nil, err
	}
	if err := e.resolveWarehouse(actor, in.WarehouseID); err != nil {
		return nil, err
	}

	var created *entity.StockTransaction
	err := e.txRunner.Run(ctx, func(txRepo repository.TransactionRepository, stockRepo repository.StockRepository) error {
		if err := stockRepo.EnsureRow(in.ProductID, in.WarehouseID); err != nil {
			return err
		}
		stock, err := stockRepo.GetForUpdate(in.ProductID, in.WarehouseID)
		if err != nil {
			return err
		}
		delta := in.NewStock.Sub(stock.Quantity)
		if delta.IsZero() {
			return domain.ErrNoOpAdjustment
		}
		tx, err := appendWithStock(txRepo, stockRepo, stock, appendInput{
			ProductID:   in.ProductID,
			WarehouseID: in.WarehouseID,
			Type:        entity.TxTypeAdjustment,
			Reason:      entity.ReasonCorrection,
			Quantity:    delta,
			Notes:       in.Notes,
			ActorID:     actor.UserID,
		})
		if err != nil {
			return err
		}
		created = tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Transfer mueve stock entre dos bodegas distintas: escribe las dos patas
// (TRANSFER_OUT en origen, TRANSFER_IN en destino) con el mismo CorrelationID
// en una sola transacción — ambas o ninguna, nunca una pata suelta.
// Solo admin/manager pueden trasladar, sin importar la bodega.
func (e *Engine) Transfer(ctx context.Context, actor entity.Actor, in TransferInput) (*TransferResult, error) {
	if !policy.CanTransferBetweenWarehouses(actor) {
		return nil, domain.ErrForbidden
	}
	if in.FromWarehouseID == in.ToWarehouseID {
		return nil, &domain.InvalidTransferError{Reason: "bodega origen y destino deben ser distintas"}
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, &domain.ValidationError{Detail: "quantity debe ser mayor que cero"}
	}
	if _, err := e.resolveProduct(actor, in.ProductID, in.Quantity); err != nil {
		return nil, err
	}
	if err := e.resolveWarehouse(actor, in.FromWarehouseID); err != nil {
		return nil, err
	}
	if err := e.resolveWarehouse(actor, in.ToWarehouseID); err != nil {
		return nil, err
	}

	correlationID := uuid.New().String()
	result := &TransferResult{}
	err := e.txRunner.Run(ctx, func(txRepo repository.TransactionRepository, stockRepo repository.StockRepository) error {
		// Bloquear ambas filas del par en orden fijo (warehouseID ascendente)
		// para que dos traslados cruzados entre las mismas bodegas no se
		// interbloqueen.
		first, second := in.FromWarehouseID, in.ToWarehouseID
		if strings.Compare(second, first) < 0 {
			first, second = second, first
		}
		locked := make(map[string]*entity.Stock, 2)
		for _, wh := range []string{first, second} {
			if err := stockRepo.EnsureRow(in.ProductID, wh); err != nil {
				return err
			}
			s, err := stockRepo.GetForUpdate(in.ProductID, wh)
			if err != nil {
				return err
			}
			locked[wh] = s
		}

		origin := locked[in.FromWarehouseID]
		if origin.Quantity.LessThan(in.Quantity) {
			return &domain.InsufficientStockError{
				ProductID:   in.ProductID,
				WarehouseID: in.FromWarehouseID,
				Available:   origin.Quantity,
				Requested:   in.Quantity,
			}
		}

		outTx, err := appendWithStock(txRepo, stockRepo, origin, appendInput{
			ProductID:     in.ProductID,
			WarehouseID:   in.FromWarehouseID,
			Type:          entity.TxTypeTransferOut,
			Reason:        entity.ReasonTransfer,
			Quantity:      in.Quantity.Neg(),
			Reference:     in.Reference,
			Notes:         in.Notes,
			ActorID:       actor.UserID,
			CorrelationID: correlationID,
		})
		if err != nil {
			return err
		}
		inTx, err := appendWithStock(txRepo, stockRepo, locked[in.ToWarehouseID], appendInput{
			ProductID:     in.ProductID,
			WarehouseID:   in.ToWarehouseID,
			Type:          entity.TxTypeTransferIn,
			Reason:        entity.ReasonTransfer,
			Quantity:      in.Quantity,
			Reference:     in.Reference,
			Notes:         in.Notes,
			ActorID:       actor.UserID,
			CorrelationID: correlationID,
		})
		if err != nil {
			return err
		}
		result.Out = outTx
		result.In = inTx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ── Núcleo de anexado ─────────────────────────────────────────────────────────

// appendInput parámetros del anexado de una fila al ledger.
type appendInput struct {
	ProductID     string
	WarehouseID   string
	Type          string
	Reason        string
	Quantity      decimal.Decimal // con signo
	UnitCost      *decimal.Decimal
	Reference     string
	Notes         string
	ActorID       string
	CorrelationID string
}

// appendLocked asegura y bloquea la fila de proyección del par y anexa.
func appendLocked(txRepo repository.TransactionRepository, stockRepo repository.StockRepository, in appendInput) (*entity.StockTransaction, error) {
	if err := stockRepo.EnsureRow(in.ProductID, in.WarehouseID); err != nil {
		return nil, err
	}
	stock, err := stockRepo.GetForUpdate(in.ProductID, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	return appendWithStock(txRepo, stockRepo, stock, in)
}

// appendWithStock anexa una fila al ledger y actualiza la proyección, partiendo
// de una fila de stock ya bloqueada. Rechaza con InsufficientStockError si el
// nuevo stock quedara negativo; en ese caso no se escribe nada.
func appendWithStock(txRepo repository.TransactionRepository, stockRepo repository.StockRepository, stock *entity.Stock, in appendInput) (*entity.StockTransaction, error) {
	newStock := stock.Quantity.Add(in.Quantity)
	if newStock.IsNegative() {
		return nil, &domain.InsufficientStockError{
			ProductID:   in.ProductID,
			WarehouseID: in.WarehouseID,
			Available:   stock.Quantity,
			Requested:   in.Quantity.Abs(),
		}
	}
	now := time.Now()
	tx := &entity.StockTransaction{
		ID:            uuid.New().String(),
		CorrelationID: in.CorrelationID,
		ProductID:     in.ProductID,
		WarehouseID:   in.WarehouseID,
		Type:          in.Type,
		Reason:        in.Reason,
		Quantity:      in.Quantity,
		PreviousStock: stock.Quantity,
		NewStock:      newStock,
		UnitCost:      in.UnitCost,
		Reference:     in.Reference,
		Notes:         in.Notes,
		CreatedBy:     in.ActorID,
		CreatedAt:     now,
	}
	if err := txRepo.Create(tx); err != nil {
		return nil, err
	}
	stock.Quantity = newStock
	stock.UpdatedAt = now
	if err := stockRepo.Upsert(stock); err != nil {
		return nil, err
	}
	return tx, nil
}

// ── Validaciones comunes ──────────────────────────────────────────────────────

// resolveProduct valida existencia, empresa y cantidades fraccionarias en
// productos de unidad discreta.
func (e *Engine) resolveProduct(actor entity.Actor, productID string, qty decimal.Decimal) (*entity.Product, error) {
	product, err := e.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != actor.CompanyID {
		return nil, domain.ErrForbidden
	}
	if product.Discrete && !qty.IsInteger() {
		return nil, &domain.ValidationError{Detail: "el producto se cuenta por unidades: la cantidad debe ser entera"}
	}
	return product, nil
}

// resolveWarehouse valida existencia, empresa, actividad y acceso del actor.
func (e *Engine) resolveWarehouse(actor entity.Actor, warehouseID string) error {
	if warehouseID == "" {
		return &domain.ValidationError{Detail: "warehouse_id es requerido"}
	}
	if !policy.CanAccessWarehouse(actor, warehouseID) {
		return &domain.WarehouseAccessDeniedError{WarehouseID: warehouseID}
	}
	wh, err := e.warehouseRepo.GetByID(warehouseID)
	if err != nil {
		return err
	}
	if wh == nil {
		return domain.ErrNotFound
	}
	if wh.CompanyID != actor.CompanyID {
		return domain.ErrForbidden
	}
	if !wh.IsActive {
		return domain.ErrWarehouseInactive
	}
	return nil
}
