package query

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jaldana18/inventory-ledger-api/internal/application/dto"
	"github.com/jaldana18/inventory-ledger-api/internal/domain"
	"github.com/jaldana18/inventory-ledger-api/internal/domain/entity"
	"github.com/jaldana18/inventory-ledger-api/internal/domain/policy"
	"github.com/jaldana18/inventory-ledger-api/internal/domain/repository"
)

// Usecase capa de consulta del inventario: proyecciones, historial y agregados.
// Solo lectura; toda respuesta pasa por el mismo filtro de acceso por bodega
// que las mutaciones, así un user nunca ve datos de bodegas ajenas.
type Usecase struct {
	queryRepo     repository.QueryRepository
	stockRepo     repository.StockRepository
	txRepo        repository.TransactionRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	// umbral global de stock bajo cuando el producto no define el suyo
	lowStockFallback decimal.Decimal
}

// NewUsecase construye la capa de consulta.
func NewUsecase(
	queryRepo repository.QueryRepository,
	stockRepo repository.StockRepository,
	txRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	lowStockFallback decimal.Decimal,
) *Usecase {
	return &Usecase{
		queryRepo:        queryRepo,
		stockRepo:        stockRepo,
		txRepo:           txRepo,
		productRepo:      productRepo,
		warehouseRepo:    warehouseRepo,
		lowStockFallback: lowStockFallback,
	}
}

// CurrentStock devuelve el stock actual de un producto en una bodega.
// Un par sin movimientos responde cero, no 404: la ausencia de fila en la
// proyección significa stock cero.
func (u *Usecase) CurrentStock(ctx context.Context, actor entity.Actor, productID, warehouseID string) (*dto.CurrentStockResponse, error) {
	if warehouseID == "" {
		warehouseID = policy.ResolveDefaultWarehouse(actor, "")
	}
	if warehouseID == "" {
		return nil, &domain.ValidationError{Detail: "warehouse_id es requerido"}
	}
	if !policy.CanAccessWarehouse(actor, warehouseID) {
		return nil, &domain.WarehouseAccessDeniedError{WarehouseID: warehouseID}
	}
	if _, err := u.resolveProduct(actor, productID); err != nil {
		return nil, err
	}

	stock, err := u.stockRepo.Get(productID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("consultar stock actual: %w", err)
	}
	resp := &dto.CurrentStockResponse{
		ProductID:    productID,
		WarehouseID:  warehouseID,
		CurrentStock: stock.Quantity,
	}
	if !stock.UpdatedAt.IsZero() {
		t := stock.UpdatedAt
		resp.UpdatedAt = &t
	}
	return resp, nil
}

// ProductStock devuelve el desglose de stock de un producto por bodega,
// limitado a las bodegas accesibles para el actor. Las bodegas ajenas se
// omiten en silencio: el desglose nunca revela su existencia.
func (u *Usecase) ProductStock(ctx context.Context, actor entity.Actor, productID string) (*dto.ProductStockResponse, error) {
	if _, err := u.resolveProduct(actor, productID); err != nil {
		return nil, err
	}

	stocks, err := u.stockRepo.ListByProduct(productID)
	if err != nil {
		return nil, fmt.Errorf("consultar stock por producto: %w", err)
	}
	resp := &dto.ProductStockResponse{
		ProductID:  productID,
		Total:      decimal.Zero,
		Warehouses: []dto.WarehouseStockDTO{},
	}
	for _, s := range stocks {
		if !policy.CanAccessWarehouse(actor, s.WarehouseID) {
			continue
		}
		resp.Warehouses = append(resp.Warehouses, dto.WarehouseStockDTO{
			WarehouseID:  s.WarehouseID,
			CurrentStock: s.Quantity,
		})
		resp.Total = resp.Total.Add(s.Quantity)
	}
	return resp, nil
}

// WarehouseSummary arma el resumen de una bodega: sus datos, agregados del
// ledger, stock por producto y los movimientos más recientes.
func (u *Usecase) WarehouseSummary(ctx context.Context, actor entity.Actor, warehouseID string) (*dto.WarehouseSummaryResponse, error) {
	if warehouseID == "" {
		warehouseID = policy.ResolveDefaultWarehouse(actor, "")
	}
	if warehouseID == "" {
		return nil, &domain.ValidationError{Detail: "warehouse_id es requerido"}
	}
	if !policy.CanAccessWarehouse(actor, warehouseID) {
		return nil, &domain.WarehouseAccessDeniedError{WarehouseID: warehouseID}
	}
	wh, err := u.warehouseRepo.GetByID(warehouseID)
	if err != nil {
		return nil, fmt.Errorf("consultar bodega: %w", err)
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}
	if wh.CompanyID != actor.CompanyID {
		return nil, domain.ErrForbidden
	}

	stats, err := u.queryRepo.GetWarehouseStats(ctx, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("consultar agregados de bodega: %w", err)
	}
	items, err := u.queryRepo.ListStockByWarehouse(ctx, warehouseID, 50, 0)
	if err != nil {
		return nil, fmt.Errorf("consultar stock de bodega: %w", err)
	}
	recent, err := u.txRepo.List(repository.TransactionFilter{WarehouseID: warehouseID}, 10, 0)
	if err != nil {
		return nil, fmt.Errorf("consultar movimientos recientes: %w", err)
	}

	resp := &dto.WarehouseSummaryResponse{
		Warehouse: dto.NewWarehouseResponse(wh),
		Stats: dto.WarehouseStatsDTO{
			TotalInbound:     stats.TotalInbound,
			TotalOutbound:    stats.TotalOutbound,
			UniqueProducts:   stats.UniqueProducts,
			TransactionCount: stats.TransactionCount,
		},
		Products:           make([]dto.WarehouseProductDTO, 0, len(items)),
		RecentTransactions: dto.NewTransactionResponses(recent),
	}
	for _, it := range items {
		resp.Products = append(resp.Products, dto.WarehouseProductDTO{
			ProductID:    it.ProductID,
			SKU:          it.SKU,
			Name:         it.Name,
			CurrentStock: it.CurrentStock,
		})
	}
	return resp, nil
}

// LowStock lista los productos bajo su umbral efectivo en las bodegas
// accesibles para el actor.
func (u *Usecase) LowStock(ctx context.Context, actor entity.Actor) ([]dto.LowStockItemDTO, error) {
	var warehouseIDs []string
	if !actor.IsUnrestricted() {
		if actor.WarehouseID == "" {
			// user sin bodega asignada: no ve ninguna
			return []dto.LowStockItemDTO{}, nil
		}
		warehouseIDs = []string{actor.WarehouseID}
	}
	items, err := u.queryRepo.ListLowStock(ctx, actor.CompanyID, warehouseIDs, u.lowStockFallback)
	if err != nil {
		return nil, fmt.Errorf("consultar stock bajo: %w", err)
	}
	out := make([]dto.LowStockItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, dto.LowStockItemDTO{
			ProductID:    it.ProductID,
			SKU:          it.SKU,
			Name:         it.Name,
			WarehouseID:  it.WarehouseID,
			CurrentStock: it.CurrentStock,
			Threshold:    it.Threshold,
		})
	}
	return out, nil
}

// History devuelve el historial del ledger filtrado y paginado, en orden
// cronológico inverso. Para un user el filtro de bodega se fuerza a la suya;
// pedir explícitamente otra bodega se rechaza, no se corrige en silencio.
func (u *Usecase) History(ctx context.Context, actor entity.Actor, filter repository.TransactionFilter, page dto.PageRequest) (*dto.TransactionListResponse, error) {
	page.DefaultPage()

	if filter.WarehouseID == "" {
		filter.WarehouseID = policy.ResolveDefaultWarehouse(actor, "")
	}
	if filter.WarehouseID != "" && !policy.CanAccessWarehouse(actor, filter.WarehouseID) {
		return nil, &domain.WarehouseAccessDeniedError{WarehouseID: filter.WarehouseID}
	}
	if filter.WarehouseID == "" && !actor.IsUnrestricted() {
		// user sin bodega asignada: historial vacío, no toda la empresa
		return &dto.TransactionListResponse{
			Items: []dto.TransactionResponse{},
			Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
		}, nil
	}
	if filter.ProductID != "" {
		if _, err := u.resolveProduct(actor, filter.ProductID); err != nil {
			return nil, err
		}
	}

	txs, err := u.txRepo.List(filter, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("consultar historial: %w", err)
	}
	return &dto.TransactionListResponse{
		Items: dto.NewTransactionResponses(txs),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Transaction devuelve una fila puntual del ledger, con el mismo filtro de
// acceso por bodega.
func (u *Usecase) Transaction(ctx context.Context, actor entity.Actor, id string) (*dto.TransactionResponse, error) {
	tx, err := u.txRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("consultar transacción: %w", err)
	}
	if tx == nil {
		return nil, domain.ErrNotFound
	}
	if !policy.CanAccessWarehouse(actor, tx.WarehouseID) {
		return nil, &domain.WarehouseAccessDeniedError{WarehouseID: tx.WarehouseID}
	}
	// la fila no lleva empresa: se verifica a través de su bodega
	wh, err := u.warehouseRepo.GetByID(tx.WarehouseID)
	if err != nil {
		return nil, fmt.Errorf("consultar bodega: %w", err)
	}
	if wh == nil || wh.CompanyID != actor.CompanyID {
		return nil, domain.ErrNotFound
	}
	resp := dto.NewTransactionResponse(tx)
	return &resp, nil
}

func (u *Usecase) resolveProduct(actor entity.Actor, productID string) (*entity.Product, error) {
	product, err := u.productRepo.GetByID(productID)
	if err != nil {
		return nil, fmt.Errorf("consultar producto: %w", err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != actor.CompanyID {
		return nil, domain.ErrForbidden
	}
	return product, nil
}
