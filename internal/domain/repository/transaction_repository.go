package repository

import (
	"time"

	"github.com/jaldana18/inventory-ledger-api/internal/domain/entity"
)

// TransactionFilter filtros opcionales para el historial del ledger.
type TransactionFilter struct {
	ProductID   string
	WarehouseID string
	Type        string
	From        *time.Time
	To          *time.Time
}

// TransactionRepository define el puerto de persistencia del ledger.
// El ledger es append-only: no hay Update ni Delete.
type TransactionRepository interface {
	Create(tx *entity.StockTransaction) error
	GetByID(id string) (*entity.StockTransaction, error)
	// List devuelve transacciones ordenadas por created_at descendente (paginable).
	List(filter TransactionFilter, limit, offset int) ([]*entity.StockTransaction, error)
	CountByWarehouse(warehouseID string) (int64, error)
}
