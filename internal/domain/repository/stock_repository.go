package repository

import "github.com/jaldana18/inventory-ledger-api/internal/domain/entity"

// StockRepository define el puerto para la proyección de stock por bodega+producto.
// Las mutaciones solo ocurren dentro de la transacción que anexa al ledger.
type StockRepository interface {
	// Get devuelve la proyección; si no hay fila devuelve cantidad cero (no es error).
	Get(productID, warehouseID string) (*entity.Stock, error)
	// EnsureRow garantiza que exista la fila del par para poder bloquearla.
	EnsureRow(productID, warehouseID string) error
	// GetForUpdate bloquea la fila del par (SELECT FOR UPDATE): la unidad de
	// exclusión mutua del motor. Pares distintos no se bloquean entre sí.
	GetForUpdate(productID, warehouseID string) (*entity.Stock, error)
	Upsert(stock *entity.Stock) error
	ListByProduct(productID string) ([]*entity.Stock, error)
}
