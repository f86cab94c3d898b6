package repository

import "github.com/jaldana18/inventory-ledger-api/internal/domain/entity"

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	Create(warehouse *entity.Warehouse) error
	GetByID(id string) (*entity.Warehouse, error)
	GetByCode(companyID, code string) (*entity.Warehouse, error)
	Update(warehouse *entity.Warehouse) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Warehouse, error)
	// UnsetMain desmarca la bodega principal actual de la empresa (si hay).
	// Se usa dentro de una transacción junto con Update para el cambio de principal.
	UnsetMain(companyID string) error
	// SoftDelete desactiva la bodega (bodegas con historial nunca se borran físicamente).
	SoftDelete(id string) error
	Delete(id string) error
}
