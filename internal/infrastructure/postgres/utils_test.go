package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPgErrorCode_ExtraeSQLSTATE(t *testing.T) {
	err := &pgconn.PgError{Code: "23505", ConstraintName: "products_company_id_sku_key"}
	assert.Equal(t, "23505", pgErrorCode(err))
}

func TestPgErrorCode_ErrorEnvuelto(t *testing.T) {
	base := &pgconn.PgError{Code: "23514", ConstraintName: "stock_non_negative"}
	wrapped := fmt.Errorf("upsert stock: %w", base)
	assert.Equal(t, "23514", pgErrorCode(wrapped))
}

func TestPgErrorCode_ErrorAjeno(t *testing.T) {
	assert.Equal(t, "", pgErrorCode(errors.New("connection refused")))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23514"}))
	assert.False(t, isUniqueViolation(errors.New("23505 en el texto no cuenta")))
}

func TestIsCheckViolation(t *testing.T) {
	assert.True(t, isCheckViolation(&pgconn.PgError{Code: "23514"}))
	assert.False(t, isCheckViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isCheckViolation(nil))
}
