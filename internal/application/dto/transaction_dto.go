package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterTransactionRequest body para POST /api/inventory/transactions (entradas y salidas).
type RegisterTransactionRequest struct {
	ProductID   string           `json:"product_id" validate:"required"`
	WarehouseID string           `json:"warehouse_id"`
	Type        string           `json:"type" validate:"required,oneof=IN OUT"`
	Reason      string           `json:"reason" validate:"required"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
	Reference   string           `json:"reference,omitempty"`
	Notes       string           `json:"notes,omitempty"`
}

// AdjustStockRequest body para POST /api/inventory/adjust.
// NewStock es el valor absoluto objetivo; el motor calcula el delta bajo bloqueo
// para evitar carreras entre el momento de lectura y el de envío.
type AdjustStockRequest struct {
	ProductID   string          `json:"product_id" validate:"required"`
	WarehouseID string          `json:"warehouse_id"`
	NewStock    decimal.Decimal `json:"new_stock"`
	Notes       string          `json:"notes,omitempty"`
}

// TransferStockRequest body para POST /api/inventory/transfer.
type TransferStockRequest struct {
	ProductID       string          `json:"product_id" validate:"required"`
	FromWarehouseID string          `json:"from_warehouse_id" validate:"required"`
	ToWarehouseID   string          `json:"to_warehouse_id" validate:"required"`
	Quantity        decimal.Decimal `json:"quantity"`
	Reference       string          `json:"reference,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

// BulkLineRequest una línea de una operación masiva.
type BulkLineRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
}

// BulkTransactionRequest body para POST /api/inventory/bulk/inbound|outbound.
type BulkTransactionRequest struct {
	WarehouseID string            `json:"warehouse_id"`
	Reason      string            `json:"reason" validate:"required"`
	Notes       string            `json:"notes,omitempty"`
	Items       []BulkLineRequest `json:"items" validate:"required,min=1,max=200,dive"`
}

// TransactionResponse una fila del ledger.
type TransactionResponse struct {
	ID            string           `json:"id"`
	CorrelationID string           `json:"correlation_id,omitempty"`
	ProductID     string           `json:"product_id"`
	WarehouseID   string           `json:"warehouse_id"`
	Type          string           `json:"type"`
	Reason        string           `json:"reason"`
	Quantity      decimal.Decimal  `json:"quantity"`
	PreviousStock decimal.Decimal  `json:"previous_stock"`
	NewStock      decimal.Decimal  `json:"new_stock"`
	UnitCost      *decimal.Decimal `json:"unit_cost,omitempty"`
	Reference     string           `json:"reference,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	CreatedBy     string           `json:"created_by,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// TransferResponse las dos patas de un traslado.
type TransferResponse struct {
	OutTransaction TransactionResponse `json:"out_transaction"`
	InTransaction  TransactionResponse `json:"in_transaction"`
}

// BulkLineError línea rechazada en una operación masiva.
type BulkLineError struct {
	Index     int            `json:"index"`
	ProductID string         `json:"product_id"`
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
}

// BulkTransactionResponse resultado de una operación masiva (todo-o-nada: si
// Failed no está vacío, Created viene vacío y nada se aplicó).
type BulkTransactionResponse struct {
	Created []TransactionResponse `json:"created"`
	Failed  []BulkLineError       `json:"failed"`
}

// TransactionListResponse historial paginado del ledger.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
