package entity

import "time"

// User representa un usuario del sistema (pertenece a una Company).
// Los usuarios con rol user tienen una bodega asignada; admin y manager no.
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, manager, user
	WarehouseID  string // bodega asignada, vacío para admin/manager
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
