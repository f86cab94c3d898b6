package entity

// Roles válidos para User y Actor.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
)

// ValidRole indica si el rol es uno de los conocidos.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// Actor es la identidad autenticada que ejecuta una operación.
// Se deriva de los claims del JWT en cada request; nunca se persiste.
// Invariante: rol user siempre tiene WarehouseID; admin/manager lo llevan vacío (sin restricción).
type Actor struct {
	UserID      string
	CompanyID   string
	Role        string
	WarehouseID string // bodega asignada, solo para rol user
}

// IsUnrestricted indica si el actor ve todas las bodegas (admin o manager).
func (a Actor) IsUnrestricted() bool {
	return a.Role == RoleAdmin || a.Role == RoleManager
}
