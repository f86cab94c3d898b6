package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrentStockResponse stock actual de un producto en una bodega.
type CurrentStockResponse struct {
	ProductID    string          `json:"product_id"`
	WarehouseID  string          `json:"warehouse_id"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	UpdatedAt    *time.Time      `json:"updated_at,omitempty"`
}

// WarehouseStockDTO stock de un producto en una bodega (desglose por bodega).
type WarehouseStockDTO struct {
	WarehouseID  string          `json:"warehouse_id"`
	CurrentStock decimal.Decimal `json:"current_stock"`
}

// ProductStockResponse desglose de stock de un producto por bodegas accesibles.
type ProductStockResponse struct {
	ProductID  string              `json:"product_id"`
	Total      decimal.Decimal     `json:"total"`
	Warehouses []WarehouseStockDTO `json:"warehouses"`
}

// WarehouseStatsDTO agregados del ledger para una bodega.
type WarehouseStatsDTO struct {
	TotalInbound     decimal.Decimal `json:"total_inbound"`
	TotalOutbound    decimal.Decimal `json:"total_outbound"`
	UniqueProducts   int             `json:"unique_products"`
	TransactionCount int64           `json:"transaction_count"`
}

// WarehouseProductDTO stock de un producto dentro del resumen de bodega.
type WarehouseProductDTO struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	CurrentStock decimal.Decimal `json:"current_stock"`
}

// WarehouseSummaryResponse resumen de una bodega para el dashboard.
type WarehouseSummaryResponse struct {
	Warehouse          WarehouseResponse     `json:"warehouse"`
	Stats              WarehouseStatsDTO     `json:"stats"`
	Products           []WarehouseProductDTO `json:"products"`
	RecentTransactions []TransactionResponse `json:"recent_transactions"`
}

// LowStockItemDTO producto bajo su umbral de stock.
type LowStockItemDTO struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	WarehouseID  string          `json:"warehouse_id"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	Threshold    decimal.Decimal `json:"threshold"`
}
