package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jaldana18/inventory-ledger-api/internal/domain/entity"
	"github.com/jaldana18/inventory-ledger-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación del ledger sobre PostgreSQL (usable con pool o tx).
// El ledger es append-only: este adaptador no expone UPDATE ni DELETE.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create anexa una fila al ledger.
func (r *TransactionRepo) Create(tx *entity.StockTransaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_transactions (
			id, correlation_id, product_id, warehouse_id, type, reason,
			quantity, previous_stock, new_stock, unit_cost, reference, notes,
			created_by, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	correlationID := (*string)(nil)
	if tx.CorrelationID != "" {
		correlationID = &tx.CorrelationID
	}
	createdBy := (*string)(nil)
	if tx.CreatedBy != "" {
		createdBy = &tx.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		tx.ID, correlationID, tx.ProductID, tx.WarehouseID, tx.Type, tx.Reason,
		tx.Quantity, tx.PreviousStock, tx.NewStock, tx.UnitCost, tx.Reference, tx.Notes,
		createdBy, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock transaction: %w", err)
	}
	return nil
}

// GetByID obtiene una fila del ledger por ID.
func (r *TransactionRepo) GetByID(id string) (*entity.StockTransaction, error) {
	query := selectColumns + ` WHERE id = $1`
	tx, err := r.scanRow(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock transaction: %w", err)
	}
	return tx, nil
}

// List devuelve filas del ledger filtradas, en orden cronológico inverso.
func (r *TransactionRepo) List(filter repository.TransactionFilter, limit, offset int) ([]*entity.StockTransaction, error) {
	query := selectColumns + ` WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, filter.ProductID)
		pos++
	}
	if filter.WarehouseID != "" {
		query += fmt.Sprintf(" AND warehouse_id = $%d", pos)
		args = append(args, filter.WarehouseID)
		pos++
	}
	if filter.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, filter.Type)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockTransaction
	for rows.Next() {
		tx, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock transaction: %w", err)
		}
		list = append(list, tx)
	}
	return list, rows.Err()
}

// CountByWarehouse cuenta las filas del ledger de una bodega.
func (r *TransactionRepo) CountByWarehouse(warehouseID string) (int64, error) {
	var n int64
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM stock_transactions WHERE warehouse_id = $1`, warehouseID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count stock transactions: %w", err)
	}
	return n, nil
}

const selectColumns = `
	SELECT id, correlation_id, product_id, warehouse_id, type, reason,
	       quantity, previous_stock, new_stock, unit_cost, reference, notes,
	       created_by, created_at
	FROM stock_transactions`

func (r *TransactionRepo) scanRow(row pgx.Row) (*entity.StockTransaction, error) {
	var tx entity.StockTransaction
	var correlationID, createdBy *string
	if err := row.Scan(
		&tx.ID, &correlationID, &tx.ProductID, &tx.WarehouseID, &tx.Type, &tx.Reason,
		&tx.Quantity, &tx.PreviousStock, &tx.NewStock, &tx.UnitCost, &tx.Reference, &tx.Notes,
		&createdBy, &tx.CreatedAt,
	); err != nil {
		return nil, err
	}
	if correlationID != nil {
		tx.CorrelationID = *correlationID
	}
	if createdBy != nil {
		tx.CreatedBy = *createdBy
	}
	return &tx, nil
}
