package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jaldana18/inventory-ledger-api/internal/domain/repository"
)

var _ repository.QueryRepository = (*QueryRepo)(nil)

// QueryRepo consultas de lectura del inventario sobre PostgreSQL. Los
// agregados se calculan en SQL: el ledger puede ser grande y nunca se carga
// completo en memoria.
type QueryRepo struct {
	pool Querier
}

// NewQueryRepository construye el adaptador de consultas.
func NewQueryRepository(pool Querier) *QueryRepo {
	return &QueryRepo{pool: pool}
}

// GetWarehouseStats calcula los agregados del ledger de una bodega.
func (r *QueryRepo) GetWarehouseStats(ctx context.Context, warehouseID string) (*repository.WarehouseStats, error) {
	query := `
		SELECT
			COALESCE(sum(quantity) FILTER (WHERE quantity > 0), 0)       AS total_inbound,
			COALESCE(-sum(quantity) FILTER (WHERE quantity < 0), 0)      AS total_outbound,
			count(DISTINCT product_id)                                   AS unique_products,
			count(*)                                                     AS transaction_count
		FROM stock_transactions
		WHERE warehouse_id = $1`
	var s repository.WarehouseStats
	err := r.pool.QueryRow(ctx, query, warehouseID).Scan(
		&s.TotalInbound, &s.TotalOutbound, &s.UniqueProducts, &s.TransactionCount,
	)
	if err != nil {
		return nil, fmt.Errorf("warehouse stats: %w", err)
	}
	return &s, nil
}

// ListStockByWarehouse lista el stock de una bodega con datos del producto.
func (r *QueryRepo) ListStockByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]repository.ProductStockItem, error) {
	query := `
		SELECT s.product_id, p.sku, p.name, s.quantity, s.updated_at
		FROM stock s
		JOIN products p ON p.id = s.product_id
		WHERE s.warehouse_id = $1
		ORDER BY p.sku
		LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock by warehouse: %w", err)
	}
	defer rows.Close()
	var items []repository.ProductStockItem
	for rows.Next() {
		var it repository.ProductStockItem
		if err := rows.Scan(&it.ProductID, &it.SKU, &it.Name, &it.CurrentStock, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListLowStock lista los productos bajo su umbral efectivo: minimum_stock del
// producto, si no reorder_point, si no el fallback global. Con warehouseIDs
// vacío considera todas las bodegas de la empresa.
func (r *QueryRepo) ListLowStock(ctx context.Context, companyID string, warehouseIDs []string, fallback decimal.Decimal) ([]repository.LowStockItem, error) {
	query := `
		WITH threshold AS (
			SELECT s.product_id, s.warehouse_id, s.quantity, p.sku, p.name,
			       CASE
			           WHEN p.minimum_stock > 0 THEN p.minimum_stock
			           WHEN p.reorder_point > 0 THEN p.reorder_point
			           ELSE $2::numeric
			       END AS effective
			FROM stock s
			JOIN products p ON p.id = s.product_id
			WHERE p.company_id = $1
			  AND p.is_active
			  AND ($3::text[] IS NULL OR s.warehouse_id = ANY($3))
		)
		SELECT product_id, sku, name, warehouse_id, quantity, effective
		FROM threshold
		WHERE quantity < effective
		ORDER BY (effective - quantity) DESC, sku`
	var whParam any
	if len(warehouseIDs) > 0 {
		whParam = warehouseIDs
	}
	rows, err := r.pool.Query(ctx, query, companyID, fallback, whParam)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	var items []repository.LowStockItem
	for rows.Next() {
		var it repository.LowStockItem
		if err := rows.Scan(&it.ProductID, &it.SKU, &it.Name, &it.WarehouseID, &it.CurrentStock, &it.Threshold); err != nil {
			return nil, fmt.Errorf("scan low stock item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
