package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock es la proyección de stock actual de un producto en una bodega.
// Siempre igual a la suma con signo de las cantidades del ledger para el par
// (producto, bodega); recomputable desde el ledger, se materializa solo como
// caché de lectura. Se muta únicamente como efecto de anexar una transacción.
type Stock struct {
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
	UpdatedAt   time.Time
}
