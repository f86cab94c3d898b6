package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// WarehouseStats agregados del ledger para una bodega.
type WarehouseStats struct {
	TotalInbound     decimal.Decimal // suma de cantidades positivas
	TotalOutbound    decimal.Decimal // suma de cantidades negativas, en valor absoluto
	UniqueProducts   int
	TransactionCount int64
}

// ProductStockItem stock de un producto dentro de una bodega, con datos del producto.
type ProductStockItem struct {
	ProductID    string
	SKU          string
	Name         string
	CurrentStock decimal.Decimal
	UpdatedAt    time.Time
}

// LowStockItem producto por debajo de su umbral de stock bajo.
type LowStockItem struct {
	ProductID    string
	SKU          string
	Name         string
	WarehouseID  string
	CurrentStock decimal.Decimal
	Threshold    decimal.Decimal
}

// QueryRepository define las consultas de lectura (proyecciones) del inventario.
// Las implementaciones son read-only: no modifican datos.
type QueryRepository interface {
	GetWarehouseStats(ctx context.Context, warehouseID string) (*WarehouseStats, error)
	ListStockByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]ProductStockItem, error)
	// ListLowStock devuelve productos cuyo stock está bajo el umbral efectivo
	// (minimum_stock o reorder_point del producto, o el fallback global).
	// warehouseIDs vacío = todas las bodegas de la empresa.
	ListLowStock(ctx context.Context, companyID string, warehouseIDs []string, fallback decimal.Decimal) ([]LowStockItem, error)
}
