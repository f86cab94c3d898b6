package ledger

import (
	"context"
	"time"

	"github.com/jaldana18/inventory-ledger-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza atomicidad para el motor: o se escriben la fila del
// ledger y la proyección juntas, o ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		txRepo repository.TransactionRepository,
		stockRepo repository.StockRepository,
	) error) error
}

// IdempotencyStore almacena respuestas de operaciones mutantes por operation id
// del cliente, para que un reintento tras un fallo de infraestructura no
// aplique la operación dos veces.
type IdempotencyStore interface {
	// Get devuelve el valor almacenado, o "" si la clave no existe.
	Get(ctx context.Context, key string) (string, error)
	// SetNX escribe solo si la clave no existe; devuelve false si ya existía.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	// Key construye la clave para un scope y un operation id, con namespace
	// por empresa y usuario: el operation id lo elige el cliente, y dos
	// clientes distintos con el mismo id nunca deben compartir respuesta.
	Key(companyID, userID, scope, id string) string
}
