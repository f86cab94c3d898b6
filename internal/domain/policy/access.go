package policy

import "github.com/jaldana18/inventory-ledger-api/internal/domain/entity"

// Política de acceso por bodega: funciones puras, sin estado.
// Es la barrera de seguridad autoritativa — el cliente puede replicarla como
// ayuda de UI, pero cada operación del motor y de las consultas la evalúa aquí.

// CanAccessWarehouse indica si el actor puede operar sobre la bodega.
// Admin y manager: siempre. User: solo su bodega asignada.
func CanAccessWarehouse(actor entity.Actor, warehouseID string) bool {
	if actor.IsUnrestricted() {
		return true
	}
	return actor.WarehouseID != "" && actor.WarehouseID == warehouseID
}

// AccessibleWarehouses filtra la lista completa por CanAccessWarehouse,
// preservando el orden de entrada.
func AccessibleWarehouses(actor entity.Actor, all []*entity.Warehouse) []*entity.Warehouse {
	out := make([]*entity.Warehouse, 0, len(all))
	for _, w := range all {
		if CanAccessWarehouse(actor, w.ID) {
			out = append(out, w)
		}
	}
	return out
}

// CanTransferBetweenWarehouses indica si el actor puede iniciar traslados.
// Solo admin y manager; el rol user nunca, aunque una de las bodegas sea la suya.
func CanTransferBetweenWarehouses(actor entity.Actor) bool {
	return actor.IsUnrestricted()
}

// ResolveDefaultWarehouse resuelve la bodega efectiva de una operación.
// Rol user: siempre su propia bodega (cualquier valor explícito se ignora).
// Admin/manager: el valor explícito, o vacío si no se indicó.
func ResolveDefaultWarehouse(actor entity.Actor, explicit string) string {
	if actor.Role == entity.RoleUser {
		return actor.WarehouseID
	}
	return explicit
}
