package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrNoOpAdjustment     = errors.New("el ajuste no representa ningún cambio de stock")
	ErrWarehouseInactive  = errors.New("la bodega está inactiva")
)

// InsufficientStockError indica que una salida dejaría el stock en negativo.
// Incluye disponible y solicitado para que el caller pueda corregir y reintentar.
type InsufficientStockError struct {
	ProductID   string
	WarehouseID string
	Available   decimal.Decimal
	Requested   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente en bodega %s: disponible %s, solicitado %s",
		e.WarehouseID, e.Available.String(), e.Requested.String())
}

// WarehouseAccessDeniedError indica que el actor no tiene acceso a la bodega.
type WarehouseAccessDeniedError struct {
	WarehouseID string
}

func (e *WarehouseAccessDeniedError) Error() string {
	return fmt.Sprintf("acceso denegado a la bodega %s", e.WarehouseID)
}

// InvalidTransferError indica un traslado mal formado (ej. misma bodega origen y destino).
type InvalidTransferError struct {
	Reason string
}

func (e *InvalidTransferError) Error() string {
	return "traslado inválido: " + e.Reason
}

// ValidationError envuelve un detalle de validación de entrada.
// errors.Is(err, ErrInvalidInput) es verdadero para estos errores.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return "entrada inválida: " + e.Detail
}

// Unwrap permite tratar ValidationError como ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
