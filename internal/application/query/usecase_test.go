package query_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaldana18/inventory-ledger-api/internal/application/dto"
	"github.com/jaldana18/inventory-ledger-api/internal/application/query"
	"github.com/jaldana18/inventory-ledger-api/internal/domain"
	"github.com/jaldana18/inventory-ledger-api/internal/domain/entity"
	"github.com/jaldana18/inventory-ledger-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de solo lectura con datos enlatados
// ──────────────────────────────────────────────────────────────────────────────

type fakeQueryRepo struct {
	stats    map[string]*repository.WarehouseStats
	byWh     map[string][]repository.ProductStockItem
	lowStock []repository.LowStockItem

	// capturados en la última llamada a ListLowStock
	gotCompanyID    string
	gotWarehouseIDs []string
	gotFallback     decimal.Decimal
}

func (f *fakeQueryRepo) GetWarehouseStats(_ context.Context, warehouseID string) (*repository.WarehouseStats, error) {
	if s, ok := f.stats[warehouseID]; ok {
		return s, nil
	}
	return &repository.WarehouseStats{TotalInbound: decimal.Zero, TotalOutbound: decimal.Zero}, nil
}

func (f *fakeQueryRepo) ListStockByWarehouse(_ context.Context, warehouseID string, limit, offset int) ([]repository.ProductStockItem, error) {
	return f.byWh[warehouseID], nil
}

func (f *fakeQueryRepo) ListLowStock(_ context.Context, companyID string, warehouseIDs []string, fallback decimal.Decimal) ([]repository.LowStockItem, error) {
	f.gotCompanyID = companyID
	f.gotWarehouseIDs = warehouseIDs
	f.gotFallback = fallback
	return f.lowStock, nil
}

type fakeStockRepo struct {
	stocks map[string]*entity.Stock // key: productID|warehouseID
}

func skey(productID, warehouseID string) string { return productID + "|" + warehouseID }

func (f *fakeStockRepo) Get(productID, warehouseID string) (*entity.Stock, error) {
	if s, ok := f.stocks[skey(productID, warehouseID)]; ok {
		return s, nil
	}
	return &entity.Stock{ProductID: productID, WarehouseID: warehouseID, Quantity: decimal.Zero}, nil
}

func (f *fakeStockRepo) EnsureRow(productID, warehouseID string) error { return nil }

func (f *fakeStockRepo) GetForUpdate(productID, warehouseID string) (*entity.Stock, error) {
	return f.Get(productID, warehouseID)
}

func (f *fakeStockRepo) Upsert(*entity.Stock) error { return nil }

func (f *fakeStockRepo) ListByProduct(productID string) ([]*entity.Stock, error) {
	var out []*entity.Stock
	for _, s := range f.stocks {
		if s.ProductID == productID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeTxRepo struct {
	txs []*entity.StockTransaction
}

func (f *fakeTxRepo) Create(*entity.StockTransaction) error { return nil }

func (f *fakeTxRepo) GetByID(id string) (*entity.StockTransaction, error) {
	for _, tx := range f.txs {
		if tx.ID == id {
			return tx, nil
		}
	}
	return nil, nil
}

func (f *fakeTxRepo) List(filter repository.TransactionFilter, limit, offset int) ([]*entity.StockTransaction, error) {
	var out []*entity.StockTransaction
	for _, tx := range f.txs {
		if filter.WarehouseID != "" && tx.WarehouseID != filter.WarehouseID {
			continue
		}
		if filter.ProductID != "" && tx.ProductID != filter.ProductID {
			continue
		}
		if filter.Type != "" && tx.Type != filter.Type {
			continue
		}
		out = append(out, tx)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeTxRepo) CountByWarehouse(string) (int64, error) { return int64(len(f.txs)), nil }

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (f *fakeProductRepo) Create(*entity.Product) error { return nil }

func (f *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return f.products[id], nil
}

func (f *fakeProductRepo) GetByCompanyAndSKU(string, string) (*entity.Product, error) {
	return nil, nil
}

func (f *fakeProductRepo) Update(*entity.Product) error { return nil }

func (f *fakeProductRepo) ListByCompany(string, int, int) ([]*entity.Product, error) {
	return nil, nil
}

func (f *fakeProductRepo) Delete(string) error { return nil }

type fakeWarehouseRepo struct {
	warehouses map[string]*entity.Warehouse
}

func (f *fakeWarehouseRepo) Create(*entity.Warehouse) error { return nil }

func (f *fakeWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	return f.warehouses[id], nil
}

func (f *fakeWarehouseRepo) GetByCode(string, string) (*entity.Warehouse, error) { return nil, nil }

func (f *fakeWarehouseRepo) Update(*entity.Warehouse) error { return nil }

func (f *fakeWarehouseRepo) ListByCompany(string, int, int) ([]*entity.Warehouse, error) {
	return nil, nil
}

func (f *fakeWarehouseRepo) UnsetMain(string) error { return nil }

func (f *fakeWarehouseRepo) SoftDelete(string) error { return nil }

func (f *fakeWarehouseRepo) Delete(string) error { return nil }

var (
	_ repository.QueryRepository     = (*fakeQueryRepo)(nil)
	_ repository.StockRepository     = (*fakeStockRepo)(nil)
	_ repository.TransactionRepository = (*fakeTxRepo)(nil)
	_ repository.ProductRepository   = (*fakeProductRepo)(nil)
	_ repository.WarehouseRepository = (*fakeWarehouseRepo)(nil)
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	coID   = "co-1"
	prodID = "prod-1"
	wh1    = "wh-1"
	wh2    = "wh-2"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func adminActor() entity.Actor {
	return entity.Actor{UserID: "u-admin", CompanyID: coID, Role: entity.RoleAdmin}
}

func userActor(warehouseID string) entity.Actor {
	return entity.Actor{UserID: "u-user", CompanyID: coID, Role: entity.RoleUser, WarehouseID: warehouseID}
}

func newUsecase() (*query.Usecase, *fakeQueryRepo, *fakeTxRepo) {
	now := time.Now()
	qr := &fakeQueryRepo{
		stats: map[string]*repository.WarehouseStats{
			wh1: {TotalInbound: d("100"), TotalOutbound: d("30"), UniqueProducts: 1, TransactionCount: 3},
		},
		byWh: map[string][]repository.ProductStockItem{
			wh1: {{ProductID: prodID, SKU: "SKU-001", Name: "Tornillo 3mm", CurrentStock: d("70"), UpdatedAt: now}},
		},
		lowStock: []repository.LowStockItem{
			{ProductID: prodID, SKU: "SKU-001", Name: "Tornillo 3mm", WarehouseID: wh1, CurrentStock: d("2"), Threshold: d("5")},
		},
	}
	sr := &fakeStockRepo{stocks: map[string]*entity.Stock{
		skey(prodID, wh1): {ProductID: prodID, WarehouseID: wh1, Quantity: d("70"), UpdatedAt: now},
		skey(prodID, wh2): {ProductID: prodID, WarehouseID: wh2, Quantity: d("50"), UpdatedAt: now},
	}}
	tr := &fakeTxRepo{txs: []*entity.StockTransaction{
		{ID: "tx-1", ProductID: prodID, WarehouseID: wh1, Type: entity.TxTypeIn, Quantity: d("100"), NewStock: d("100"), CreatedAt: now},
		{ID: "tx-2", ProductID: prodID, WarehouseID: wh1, Type: entity.TxTypeOut, Quantity: d("-30"), PreviousStock: d("100"), NewStock: d("70"), CreatedAt: now},
		{ID: "tx-3", ProductID: prodID, WarehouseID: wh2, Type: entity.TxTypeIn, Quantity: d("50"), NewStock: d("50"), CreatedAt: now},
	}}
	pr := &fakeProductRepo{products: map[string]*entity.Product{
		prodID: {ID: prodID, CompanyID: coID, SKU: "SKU-001", Name: "Tornillo 3mm", Discrete: true, IsActive: true},
	}}
	wr := &fakeWarehouseRepo{warehouses: map[string]*entity.Warehouse{
		wh1: {ID: wh1, CompanyID: coID, Code: "PRIN", Name: "Principal", IsMain: true, IsActive: true},
		wh2: {ID: wh2, CompanyID: coID, Code: "NORTE", Name: "Norte", IsActive: true},
	}}
	return query.NewUsecase(qr, sr, tr, pr, wr, d("5")), qr, tr
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestCurrentStock_DevuelveProyeccion(t *testing.T) {
	uc, _, _ := newUsecase()
	resp, err := uc.CurrentStock(context.Background(), adminActor(), prodID, wh1)
	require.NoError(t, err)
	assert.True(t, resp.CurrentStock.Equal(d("70")))
	assert.NotNil(t, resp.UpdatedAt)
}

func TestCurrentStock_ParSinMovimientosEsCero(t *testing.T) {
	uc, _, _ := newUsecase()
	resp, err := uc.CurrentStock(context.Background(), adminActor(), prodID, "wh-sin-filas")
	require.NoError(t, err)
	assert.True(t, resp.CurrentStock.IsZero())
	assert.Nil(t, resp.UpdatedAt, "par sin movimientos no tiene updated_at")
}

func TestCurrentStock_UserBodegaAjenaDenegado(t *testing.T) {
	uc, _, _ := newUsecase()
	_, err := uc.CurrentStock(context.Background(), userActor(wh1), prodID, wh2)
	var denied *domain.WarehouseAccessDeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, wh2, denied.WarehouseID)
}

func TestCurrentStock_UserSinBodegaExplicitaUsaLaPropia(t *testing.T) {
	uc, _, _ := newUsecase()
	resp, err := uc.CurrentStock(context.Background(), userActor(wh2), prodID, "")
	require.NoError(t, err)
	assert.Equal(t, wh2, resp.WarehouseID)
	assert.True(t, resp.CurrentStock.Equal(d("50")))
}

func TestCurrentStock_ProductoInexistente(t *testing.T) {
	uc, _, _ := newUsecase()
	_, err := uc.CurrentStock(context.Background(), adminActor(), "prod-fantasma", wh1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductStock_AdminVeTodasLasBodegas(t *testing.T) {
	uc, _, _ := newUsecase()
	resp, err := uc.ProductStock(context.Background(), adminActor(), prodID)
	require.NoError(t, err)
	assert.Len(t, resp.Warehouses, 2)
	assert.True(t, resp.Total.Equal(d("120")))
}

func TestProductStock_UserSoloVeSuBodega(t *testing.T) {
	uc, _, _ := newUsecase()
	resp, err := uc.ProductStock(context.Background(), userActor(wh1), prodID)
	require.NoError(t, err)
	require.Len(t, resp.Warehouses, 1, "las bodegas ajenas se omiten del desglose")
	assert.Equal(t, wh1, resp.Warehouses[0].WarehouseID)
	assert.True(t, resp.Total.Equal(d("70")), "el total solo suma lo accesible")
}

func TestWarehouseSummary_ArmaTodasLasPartes(t *testing.T) {
	uc, _, _ := newUsecase()
	resp, err := uc.WarehouseSummary(context.Background(), adminActor(), wh1)
	require.NoError(t, err)
	assert.Equal(t, "Principal", resp.Warehouse.Name)
	assert.True(t, resp.Stats.TotalInbound.Equal(d("100")))
	assert.True(t, resp.Stats.TotalOutbound.Equal(d("30")))
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "SKU-001", resp.Products[0].SKU)
	assert.Len(t, resp.RecentTransactions, 2, "solo movimientos de la bodega pedida")
}

func TestWarehouseSummary_UserBodegaAjenaDenegado(t *testing.T) {
	uc, _, _ := newUsecase()
	_, err := uc.WarehouseSummary(context.Background(), userActor(wh2), wh1)
	var denied *domain.WarehouseAccessDeniedError
	assert.ErrorAs(t, err, &denied)
}

func TestLowStock_AdminConsultaTodaLaEmpresa(t *testing.T) {
	uc, qr, _ := newUsecase()
	items, err := uc.LowStock(context.Background(), adminActor())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Threshold.Equal(d("5")))
	assert.Equal(t, coID, qr.gotCompanyID)
	assert.Nil(t, qr.gotWarehouseIDs, "sin restricción: todas las bodegas")
	assert.True(t, qr.gotFallback.Equal(d("5")))
}

func TestLowStock_UserRestringidoASuBodega(t *testing.T) {
	uc, qr, _ := newUsecase()
	_, err := uc.LowStock(context.Background(), userActor(wh1))
	require.NoError(t, err)
	assert.Equal(t, []string{wh1}, qr.gotWarehouseIDs)
}

func TestLowStock_UserSinBodegaNoVeNada(t *testing.T) {
	uc, _, _ := newUsecase()
	items, err := uc.LowStock(context.Background(), userActor(""))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestHistory_FiltraPorBodega(t *testing.T) {
	uc, _, _ := newUsecase()
	resp, err := uc.History(context.Background(), adminActor(),
		repository.TransactionFilter{WarehouseID: wh2}, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "tx-3", resp.Items[0].ID)
	assert.Equal(t, 20, resp.Page.Limit, "límite por defecto")
}

func TestHistory_UserSeFuerzaASuBodega(t *testing.T) {
	uc, _, _ := newUsecase()
	resp, err := uc.History(context.Background(), userActor(wh1),
		repository.TransactionFilter{}, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	for _, it := range resp.Items {
		assert.Equal(t, wh1, it.WarehouseID)
	}
}

func TestHistory_UserBodegaExplicitaAjenaDenegado(t *testing.T) {
	uc, _, _ := newUsecase()
	_, err := uc.History(context.Background(), userActor(wh1),
		repository.TransactionFilter{WarehouseID: wh2}, dto.PageRequest{})
	var denied *domain.WarehouseAccessDeniedError
	assert.ErrorAs(t, err, &denied)
}

func TestTransaction_AccesoPorBodegaDeLaFila(t *testing.T) {
	uc, _, _ := newUsecase()

	resp, err := uc.Transaction(context.Background(), adminActor(), "tx-1")
	require.NoError(t, err)
	assert.Equal(t, "tx-1", resp.ID)

	_, err = uc.Transaction(context.Background(), userActor(wh1), "tx-3")
	var denied *domain.WarehouseAccessDeniedError
	assert.ErrorAs(t, err, &denied)

	_, err = uc.Transaction(context.Background(), adminActor(), "tx-fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
