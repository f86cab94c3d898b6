package entity

import "time"

// Warehouse representa una bodega o sucursal donde se almacena inventario (multi-bodega).
// A lo sumo una bodega por empresa tiene IsMain=true; el cambio de principal se hace
// en una sola transacción de DB (desmarcar y marcar).
// Una bodega con historial en el ledger nunca se elimina físicamente: se desactiva.
type Warehouse struct {
	ID        string
	CompanyID string
	Code      string // único por empresa
	Name      string
	Address   string
	IsMain    bool
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
