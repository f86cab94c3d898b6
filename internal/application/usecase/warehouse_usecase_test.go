package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaldana18/inventory-ledger-api/internal/application/dto"
	"github.com/jaldana18/inventory-ledger-api/internal/application/usecase"
	"github.com/jaldana18/inventory-ledger-api/internal/domain/entity"
	"github.com/jaldana18/inventory-ledger-api/internal/domain/repository"
)

const whTestCompany = "co-1"

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memWarehouseRepo struct {
	items []*entity.Warehouse
}

var _ repository.WarehouseRepository = (*memWarehouseRepo)(nil)

func (m *memWarehouseRepo) Create(wh *entity.Warehouse) error {
	m.items = append(m.items, wh)
	return nil
}

func (m *memWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	for _, wh := range m.items {
		if wh.ID == id {
			return wh, nil
		}
	}
	return nil, nil
}

func (m *memWarehouseRepo) GetByCode(companyID, code string) (*entity.Warehouse, error) {
	for _, wh := range m.items {
		if wh.CompanyID == companyID && wh.Code == code {
			return wh, nil
		}
	}
	return nil, nil
}

func (m *memWarehouseRepo) Update(wh *entity.Warehouse) error {
	for i, cur := range m.items {
		if cur.ID == wh.ID {
			m.items[i] = wh
		}
	}
	return nil
}

func (m *memWarehouseRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	var all []*entity.Warehouse
	for _, wh := range m.items {
		if wh.CompanyID == companyID {
			all = append(all, wh)
		}
	}
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *memWarehouseRepo) UnsetMain(companyID string) error {
	for _, wh := range m.items {
		if wh.CompanyID == companyID {
			wh.IsMain = false
		}
	}
	return nil
}

func (m *memWarehouseRepo) SoftDelete(id string) error {
	for _, wh := range m.items {
		if wh.ID == id {
			wh.IsActive = false
		}
	}
	return nil
}

func (m *memWarehouseRepo) Delete(id string) error {
	for i, wh := range m.items {
		if wh.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return nil
}

type memWarehouseTxRepo struct {
	counts map[string]int64
}

var _ repository.TransactionRepository = (*memWarehouseTxRepo)(nil)

func (m *memWarehouseTxRepo) Create(*entity.StockTransaction) error { return nil }
func (m *memWarehouseTxRepo) GetByID(string) (*entity.StockTransaction, error) {
	return nil, nil
}
func (m *memWarehouseTxRepo) List(repository.TransactionFilter, int, int) ([]*entity.StockTransaction, error) {
	return nil, nil
}
func (m *memWarehouseTxRepo) CountByWarehouse(warehouseID string) (int64, error) {
	return m.counts[warehouseID], nil
}

type memWarehouseTxRunner struct {
	repo *memWarehouseRepo
}

func (m *memWarehouseTxRunner) RunWarehouses(ctx context.Context, fn func(repo repository.WarehouseRepository) error) error {
	return fn(m.repo)
}

func newWarehouseFixture(ids ...string) (*usecase.WarehouseUseCase, *memWarehouseRepo) {
	repo := &memWarehouseRepo{}
	now := time.Now()
	for i, id := range ids {
		repo.items = append(repo.items, &entity.Warehouse{
			ID:        id,
			CompanyID: whTestCompany,
			Code:      id,
			Name:      "Bodega " + id,
			IsMain:    i == 0,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	uc := usecase.NewWarehouseUseCase(repo, &memWarehouseTxRepo{counts: map[string]int64{}}, &memWarehouseTxRunner{repo: repo})
	return uc, repo
}

func whAdmin() entity.Actor {
	return entity.Actor{UserID: "u-admin", CompanyID: whTestCompany, Role: entity.RoleAdmin}
}

func whRestricted(warehouseID string) entity.Actor {
	return entity.Actor{UserID: "u-wh", CompanyID: whTestCompany, Role: entity.RoleUser, WarehouseID: warehouseID}
}

// ──────────────────────────────────────────────────────────────────────────────
// List: el alcance por rol se resuelve antes de paginar
// ──────────────────────────────────────────────────────────────────────────────

func TestWarehouseList_UsuarioVeSuBodegaSinImportarLaPagina(t *testing.T) {
	// La bodega del usuario es la quinta de la empresa: con limit=2 caería en
	// la tercera página si se paginara antes de filtrar.
	uc, _ := newWarehouseFixture("wh-1", "wh-2", "wh-3", "wh-4", "wh-5")
	actor := whRestricted("wh-5")

	resp, err := uc.List(context.Background(), actor, dto.PageRequest{Limit: 2, Offset: 0})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "wh-5", resp.Items[0].ID)

	// Más allá de la primera página no hay nada más que ver para el usuario.
	resp, err = uc.List(context.Background(), actor, dto.PageRequest{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}

func TestWarehouseList_UsuarioSinBodegaAsignadaVePaginaVacia(t *testing.T) {
	uc, _ := newWarehouseFixture("wh-1", "wh-2")

	resp, err := uc.List(context.Background(), whRestricted(""), dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}

func TestWarehouseList_UsuarioNoVeBodegaDeOtraEmpresa(t *testing.T) {
	uc, repo := newWarehouseFixture("wh-1")
	repo.items = append(repo.items, &entity.Warehouse{
		ID: "wh-ajena", CompanyID: "co-2", Code: "wh-ajena", Name: "Ajena", IsActive: true,
	})

	resp, err := uc.List(context.Background(), whRestricted("wh-ajena"), dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}

func TestWarehouseList_AdminPaginaSobreTodasLasBodegas(t *testing.T) {
	uc, _ := newWarehouseFixture("wh-1", "wh-2", "wh-3")

	resp, err := uc.List(context.Background(), whAdmin(), dto.PageRequest{Limit: 2, Offset: 0})
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "wh-1", resp.Items[0].ID)
	assert.Equal(t, "wh-2", resp.Items[1].ID)

	resp, err = uc.List(context.Background(), whAdmin(), dto.PageRequest{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "wh-3", resp.Items[0].ID)
}
