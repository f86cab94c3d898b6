package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jaldana18/inventory-ledger-api/internal/application/dto"
	"github.com/jaldana18/inventory-ledger-api/internal/domain"
	"github.com/jaldana18/inventory-ledger-api/internal/domain/entity"
	"github.com/jaldana18/inventory-ledger-api/internal/domain/policy"
	"github.com/jaldana18/inventory-ledger-api/internal/domain/repository"
)

// WarehouseTxRunner ejecuta operaciones de bodega dentro de una transacción de
// BD. Se usa para el intercambio de bodega principal: desmarcar la actual y
// marcar la nueva deben ser un solo paso atómico.
type WarehouseTxRunner interface {
	RunWarehouses(ctx context.Context, fn func(repo repository.WarehouseRepository) error) error
}

// WarehouseUseCase administración de bodegas.
type WarehouseUseCase struct {
	warehouseRepo repository.WarehouseRepository
	txRepo        repository.TransactionRepository
	txRunner      WarehouseTxRunner
}

// NewWarehouseUseCase construye el caso de uso de bodegas.
func NewWarehouseUseCase(
	warehouseRepo repository.WarehouseRepository,
	txRepo repository.TransactionRepository,
	txRunner WarehouseTxRunner,
) *WarehouseUseCase {
	return &WarehouseUseCase{warehouseRepo: warehouseRepo, txRepo: txRepo, txRunner: txRunner}
}

// Create crea una bodega. El código es único por empresa; si la nueva bodega
// se marca como principal, la principal anterior se desmarca en la misma
// transacción (invariante: a lo sumo una principal por empresa).
func (uc *WarehouseUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	existing, err := uc.warehouseRepo.GetByCode(actor.CompanyID, in.Code)
	if err != nil {
		return nil, fmt.Errorf("verificar código de bodega: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	wh := &entity.Warehouse{
		ID:        uuid.New().String(),
		CompanyID: actor.CompanyID,
		Code:      in.Code,
		Name:      in.Name,
		Address:   in.Address,
		IsMain:    in.IsMain,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = uc.txRunner.RunWarehouses(ctx, func(repo repository.WarehouseRepository) error {
		if wh.IsMain {
			if err := repo.UnsetMain(actor.CompanyID); err != nil {
				return err
			}
		}
		return repo.Create(wh)
	})
	if err != nil {
		return nil, err
	}
	resp := dto.NewWarehouseResponse(wh)
	return &resp, nil
}

// GetByID devuelve una bodega de la empresa del actor, respetando el filtro
// de acceso por bodega.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.WarehouseResponse, error) {
	wh, err := uc.get(actor, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccessWarehouse(actor, id) {
		return nil, &domain.WarehouseAccessDeniedError{WarehouseID: id}
	}
	resp := dto.NewWarehouseResponse(wh)
	return &resp, nil
}

// List lista las bodegas de la empresa visibles para el actor: todas para
// admin/manager, solo la asignada para user. El alcance se resuelve antes de
// paginar; paginar primero dejaría al rol user con páginas recortadas según
// dónde caiga su bodega en el orden de la empresa.
func (uc *WarehouseUseCase) List(ctx context.Context, actor entity.Actor, page dto.PageRequest) (*dto.WarehouseListResponse, error) {
	page.DefaultPage()

	if !actor.IsUnrestricted() {
		items := make([]dto.WarehouseResponse, 0, 1)
		if actor.WarehouseID != "" && page.Offset == 0 {
			wh, err := uc.warehouseRepo.GetByID(actor.WarehouseID)
			if err != nil {
				return nil, fmt.Errorf("listar bodegas: %w", err)
			}
			if wh != nil && wh.CompanyID == actor.CompanyID {
				items = append(items, dto.NewWarehouseResponse(wh))
			}
		}
		return &dto.WarehouseListResponse{
			Items: items,
			Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
		}, nil
	}

	all, err := uc.warehouseRepo.ListByCompany(actor.CompanyID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar bodegas: %w", err)
	}
	items := make([]dto.WarehouseResponse, 0, len(all))
	for _, wh := range all {
		items = append(items, dto.NewWarehouseResponse(wh))
	}
	return &dto.WarehouseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update actualiza una bodega. Promover a principal desmarca la anterior en la
// misma transacción; desactivar una bodega no borra su historial.
func (uc *WarehouseUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	wh, err := uc.get(actor, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		wh.Name = *in.Name
	}
	if in.Address != nil {
		wh.Address = *in.Address
	}
	if in.IsActive != nil {
		wh.IsActive = *in.IsActive
	}
	promote := in.IsMain != nil && *in.IsMain && !wh.IsMain
	if in.IsMain != nil {
		wh.IsMain = *in.IsMain
	}
	wh.UpdatedAt = time.Now()

	err = uc.txRunner.RunWarehouses(ctx, func(repo repository.WarehouseRepository) error {
		if promote {
			if err := repo.UnsetMain(actor.CompanyID); err != nil {
				return err
			}
			wh.IsMain = true
		}
		return repo.Update(wh)
	})
	if err != nil {
		return nil, err
	}
	resp := dto.NewWarehouseResponse(wh)
	return &resp, nil
}

// Delete elimina una bodega. Si tiene historial en el ledger solo se
// desactiva: las filas del ledger son inmutables y sus referencias deben
// seguir resolviendo.
func (uc *WarehouseUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if _, err := uc.get(actor, id); err != nil {
		return err
	}
	count, err := uc.txRepo.CountByWarehouse(id)
	if err != nil {
		return fmt.Errorf("contar movimientos de bodega: %w", err)
	}
	if count > 0 {
		return uc.warehouseRepo.SoftDelete(id)
	}
	return uc.warehouseRepo.Delete(id)
}

func (uc *WarehouseUseCase) get(actor entity.Actor, id string) (*entity.Warehouse, error) {
	wh, err := uc.warehouseRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("consultar bodega: %w", err)
	}
	if wh == nil || wh.CompanyID != actor.CompanyID {
		return nil, domain.ErrNotFound
	}
	return wh, nil
}
