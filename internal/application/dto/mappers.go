package dto

import "github.com/jaldana18/inventory-ledger-api/internal/domain/entity"

// NewTransactionResponse mapea una fila del ledger a su DTO.
func NewTransactionResponse(tx *entity.StockTransaction) TransactionResponse {
	return TransactionResponse{
		ID:            tx.ID,
		CorrelationID: tx.CorrelationID,
		ProductID:     tx.ProductID,
		WarehouseID:   tx.WarehouseID,
		Type:          tx.Type,
		Reason:        tx.Reason,
		Quantity:      tx.Quantity,
		PreviousStock: tx.PreviousStock,
		NewStock:      tx.NewStock,
		UnitCost:      tx.UnitCost,
		Reference:     tx.Reference,
		Notes:         tx.Notes,
		CreatedBy:     tx.CreatedBy,
		CreatedAt:     tx.CreatedAt,
	}
}

// NewTransactionResponses mapea un lote de filas del ledger.
func NewTransactionResponses(txs []*entity.StockTransaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, NewTransactionResponse(tx))
	}
	return out
}

// NewWarehouseResponse mapea una bodega a su DTO.
func NewWarehouseResponse(w *entity.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:        w.ID,
		CompanyID: w.CompanyID,
		Code:      w.Code,
		Name:      w.Name,
		Address:   w.Address,
		IsMain:    w.IsMain,
		IsActive:  w.IsActive,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

// NewProductResponse mapea un producto a su DTO.
func NewProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		CompanyID:    p.CompanyID,
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		UnitMeasure:  p.UnitMeasure,
		Discrete:     p.Discrete,
		MinimumStock: p.MinimumStock,
		ReorderPoint: p.ReorderPoint,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
