package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario (multi-bodega).
// El stock se maneja por bodega en la proyección Stock; el producto nunca
// es mutado por el ledger.
type Product struct {
	ID           string
	CompanyID    string
	SKU          string // código único por empresa
	Name         string
	Description  string
	UnitMeasure  string          // unidad, kg, litro, caja...
	Discrete     bool            // true = solo cantidades enteras (unidades contadas)
	MinimumStock decimal.Decimal // umbral de stock bajo propio del producto (0 = usar el global)
	ReorderPoint decimal.Decimal
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LowStockThreshold devuelve el umbral efectivo del producto: MinimumStock si está
// definido, si no ReorderPoint, si no el fallback global del sistema.
func (p *Product) LowStockThreshold(fallback decimal.Decimal) decimal.Decimal {
	if p.MinimumStock.GreaterThan(decimal.Zero) {
		return p.MinimumStock
	}
	if p.ReorderPoint.GreaterThan(decimal.Zero) {
		return p.ReorderPoint
	}
	return fallback
}
