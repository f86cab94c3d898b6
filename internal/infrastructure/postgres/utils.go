package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos SQLSTATE que el esquema puede devolver y que mapeamos a errores de dominio.
const (
	codeUniqueViolation = "23505" // UNIQUE(company_id, sku), UNIQUE(company_id, email), etc.
	codeCheckViolation  = "23514" // stock_non_negative, new_stock >= 0
)

// pgErrorCode extrae el SQLSTATE de un error de pgx, o cadena vacía si no aplica.
func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único.
func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == codeUniqueViolation
}

// isCheckViolation verifica si un error es una violación de CHECK. El esquema
// de stock tiene quantity >= 0: si el motor dejó pasar una cantidad negativa,
// la base es la última línea de defensa y aquí lo traducimos a conflicto.
func isCheckViolation(err error) bool {
	return pgErrorCode(err) == codeCheckViolation
}
