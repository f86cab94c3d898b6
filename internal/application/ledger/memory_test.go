package ledger_test

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jaldana18/inventory-ledger-api/internal/domain/entity"
	"github.com/jaldana18/inventory-ledger-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos de persistencia. El runner clona el estado y
// solo lo confirma si el callback retorna nil, imitando el Commit/Rollback real.
// ──────────────────────────────────────────────────────────────────────────────

func stockKey(productID, warehouseID string) string {
	return productID + "|" + warehouseID
}

type memState struct {
	stocks map[string]*entity.Stock
	txs    []*entity.StockTransaction
}

func newMemState() *memState {
	return &memState{stocks: make(map[string]*entity.Stock)}
}

func (s *memState) clone() *memState {
	c := newMemState()
	for k, v := range s.stocks {
		cp := *v
		c.stocks[k] = &cp
	}
	for _, tx := range s.txs {
		cp := *tx
		c.txs = append(c.txs, &cp)
	}
	return c
}

// memStockRepo implementación en memoria de repository.StockRepository.
type memStockRepo struct {
	s *memState
}

func (r *memStockRepo) Get(productID, warehouseID string) (*entity.Stock, error) {
	if st, ok := r.s.stocks[stockKey(productID, warehouseID)]; ok {
		cp := *st
		return &cp, nil
	}
	return &entity.Stock{ProductID: productID, WarehouseID: warehouseID, Quantity: decimal.Zero}, nil
}

func (r *memStockRepo) EnsureRow(productID, warehouseID string) error {
	key := stockKey(productID, warehouseID)
	if _, ok := r.s.stocks[key]; !ok {
		r.s.stocks[key] = &entity.Stock{ProductID: productID, WarehouseID: warehouseID, Quantity: decimal.Zero}
	}
	return nil
}

func (r *memStockRepo) GetForUpdate(productID, warehouseID string) (*entity.Stock, error) {
	return r.Get(productID, warehouseID)
}

func (r *memStockRepo) Upsert(stock *entity.Stock) error {
	cp := *stock
	r.s.stocks[stockKey(stock.ProductID, stock.WarehouseID)] = &cp
	return nil
}

func (r *memStockRepo) ListByProduct(productID string) ([]*entity.Stock, error) {
	var out []*entity.Stock
	for _, st := range r.s.stocks {
		if st.ProductID == productID {
			cp := *st
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WarehouseID < out[j].WarehouseID })
	return out, nil
}

// memTxRepo implementación en memoria de repository.TransactionRepository.
// failOn permite inyectar un fallo de escritura para probar atomicidad.
type memTxRepo struct {
	s      *memState
	failOn func(tx *entity.StockTransaction) error
}

func (r *memTxRepo) Create(tx *entity.StockTransaction) error {
	if r.failOn != nil {
		if err := r.failOn(tx); err != nil {
			return err
		}
	}
	cp := *tx
	r.s.txs = append(r.s.txs, &cp)
	return nil
}

func (r *memTxRepo) GetByID(id string) (*entity.StockTransaction, error) {
	for _, tx := range r.s.txs {
		if tx.ID == id {
			cp := *tx
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memTxRepo) List(filter repository.TransactionFilter, limit, offset int) ([]*entity.StockTransaction, error) {
	var out []*entity.StockTransaction
	for _, tx := range r.s.txs {
		if filter.ProductID != "" && tx.ProductID != filter.ProductID {
			continue
		}
		if filter.WarehouseID != "" && tx.WarehouseID != filter.WarehouseID {
			continue
		}
		if filter.Type != "" && tx.Type != filter.Type {
			continue
		}
		cp := *tx
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memTxRepo) CountByWarehouse(warehouseID string) (int64, error) {
	var n int64
	for _, tx := range r.s.txs {
		if tx.WarehouseID == warehouseID {
			n++
		}
	}
	return n, nil
}

// memTxRunner clona el estado, ejecuta fn sobre el clon y confirma solo si
// fn retorna nil (Commit); si retorna error descarta el clon (Rollback).
type memTxRunner struct {
	state  *memState
	failOn func(tx *entity.StockTransaction) error
}

func (r *memTxRunner) Run(_ context.Context, fn func(
	txRepo repository.TransactionRepository,
	stockRepo repository.StockRepository,
) error) error {
	work := r.state.clone()
	if err := fn(&memTxRepo{s: work, failOn: r.failOn}, &memStockRepo{s: work}); err != nil {
		return err
	}
	*r.state = *work
	return nil
}

// memProductRepo implementación en memoria de repository.ProductRepository.
type memProductRepo struct {
	products map[string]*entity.Product
}

func (r *memProductRepo) Create(p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	if p, ok := r.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *memProductRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.CompanyID == companyID && p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) Update(p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *memProductRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProductRepo) Delete(id string) error {
	delete(r.products, id)
	return nil
}

// memWarehouseRepo implementación en memoria de repository.WarehouseRepository.
type memWarehouseRepo struct {
	warehouses map[string]*entity.Warehouse
}

func (r *memWarehouseRepo) Create(w *entity.Warehouse) error {
	r.warehouses[w.ID] = w
	return nil
}

func (r *memWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	if w, ok := r.warehouses[id]; ok {
		cp := *w
		return &cp, nil
	}
	return nil, nil
}

func (r *memWarehouseRepo) GetByCode(companyID, code string) (*entity.Warehouse, error) {
	for _, w := range r.warehouses {
		if w.CompanyID == companyID && w.Code == code {
			cp := *w
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memWarehouseRepo) Update(w *entity.Warehouse) error {
	r.warehouses[w.ID] = w
	return nil
}

func (r *memWarehouseRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, w := range r.warehouses {
		if w.CompanyID == companyID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memWarehouseRepo) UnsetMain(companyID string) error {
	for _, w := range r.warehouses {
		if w.CompanyID == companyID && w.IsMain {
			w.IsMain = false
		}
	}
	return nil
}

func (r *memWarehouseRepo) SoftDelete(id string) error {
	if w, ok := r.warehouses[id]; ok {
		w.IsActive = false
	}
	return nil
}

func (r *memWarehouseRepo) Delete(id string) error {
	delete(r.warehouses, id)
	return nil
}

// interfaces cumplidas (mismo chequeo en compilación que usan los adaptadores reales)
var (
	_ repository.StockRepository       = (*memStockRepo)(nil)
	_ repository.TransactionRepository = (*memTxRepo)(nil)
	_ repository.ProductRepository     = (*memProductRepo)(nil)
	_ repository.WarehouseRepository   = (*memWarehouseRepo)(nil)
)

// fixture de datos común para los tests del motor.
const (
	testCompany = "co-1"
	testProduct = "prod-1"
	testWh1     = "wh-1"
	testWh2     = "wh-2"
)

func newFixture() (*memState, *memProductRepo, *memWarehouseRepo) {
	now := time.Now()
	products := &memProductRepo{products: map[string]*entity.Product{
		testProduct: {
			ID: testProduct, CompanyID: testCompany, SKU: "SKU-001", Name: "Tornillo 3mm",
			UnitMeasure: "unidad", Discrete: true, IsActive: true, CreatedAt: now, UpdatedAt: now,
		},
		"prod-granel": {
			ID: "prod-granel", CompanyID: testCompany, SKU: "SKU-002", Name: "Arena fina",
			UnitMeasure: "kg", Discrete: false, IsActive: true, CreatedAt: now, UpdatedAt: now,
		},
	}}
	warehouses := &memWarehouseRepo{warehouses: map[string]*entity.Warehouse{
		testWh1: {ID: testWh1, CompanyID: testCompany, Code: "PRIN", Name: "Principal", IsMain: true, IsActive: true},
		testWh2: {ID: testWh2, CompanyID: testCompany, Code: "NORTE", Name: "Norte", IsActive: true},
	}}
	return newMemState(), products, warehouses
}
