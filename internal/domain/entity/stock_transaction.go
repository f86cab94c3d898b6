package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción del ledger.
const (
	TxTypeIn          = "IN"           // entrada
	TxTypeOut         = "OUT"          // salida
	TxTypeAdjustment  = "ADJUSTMENT"   // ajuste a valor absoluto (delta con signo)
	TxTypeTransferOut = "TRANSFER_OUT" // salida por traslado (bodega origen)
	TxTypeTransferIn  = "TRANSFER_IN"  // entrada por traslado (bodega destino)
)

// Razones de negocio por tipo de transacción.
const (
	ReasonPurchase     = "purchase"
	ReasonReturn       = "return"
	ReasonInitialStock = "initial_stock"
	ReasonFound        = "found"
	ReasonSale         = "sale"
	ReasonDamaged      = "damaged"
	ReasonLost         = "lost"
	ReasonCorrection   = "correction"
	ReasonTransfer     = "transfer"
)

// InboundReasons razones válidas para entradas.
var InboundReasons = map[string]bool{
	ReasonPurchase:     true,
	ReasonReturn:       true,
	ReasonInitialStock: true,
	ReasonFound:        true,
}

// OutboundReasons razones válidas para salidas.
var OutboundReasons = map[string]bool{
	ReasonSale:    true,
	ReasonDamaged: true,
	ReasonLost:    true,
}

// StockTransaction es el registro del ledger: append-only e inmutable una vez escrito.
// Invariantes: NewStock = PreviousStock + Quantity y NewStock >= 0; una transacción
// que viole la no-negatividad se rechaza completa, nunca se aplica parcialmente.
// Un traslado son dos filas (TRANSFER_OUT en origen, TRANSFER_IN en destino) que
// comparten CorrelationID y se escriben atómicamente.
type StockTransaction struct {
	ID            string
	CorrelationID string // agrupa las dos patas de un traslado (o líneas de un bulk)
	ProductID     string
	WarehouseID   string
	Type          string
	Reason        string
	Quantity      decimal.Decimal // con signo: positivo IN/TRANSFER_IN, negativo OUT/TRANSFER_OUT, delta en ADJUSTMENT
	PreviousStock decimal.Decimal
	NewStock      decimal.Decimal
	UnitCost      *decimal.Decimal
	Reference     string
	Notes         string
	CreatedBy     string // UserID del actor
	CreatedAt     time.Time
}
