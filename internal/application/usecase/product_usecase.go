package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jaldana18/inventory-ledger-api/internal/application/dto"
	"github.com/jaldana18/inventory-ledger-api/internal/domain"
	"github.com/jaldana18/inventory-ledger-api/internal/domain/entity"
	"github.com/jaldana18/inventory-ledger-api/internal/domain/repository"
)

// ProductUseCase administración de productos. El catálogo es independiente del
// ledger: crear o editar un producto nunca toca el stock.
type ProductUseCase struct {
	productRepo repository.ProductRepository
	stockRepo   repository.StockRepository
}

// NewProductUseCase construye el caso de uso de productos.
func NewProductUseCase(productRepo repository.ProductRepository, stockRepo repository.StockRepository) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo, stockRepo: stockRepo}
}

// Create crea un producto. El SKU es único por empresa.
func (uc *ProductUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	existing, err := uc.productRepo.GetByCompanyAndSKU(actor.CompanyID, in.SKU)
	if err != nil {
		return nil, fmt.Errorf("verificar SKU: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		CompanyID:    actor.CompanyID,
		SKU:          in.SKU,
		Name:         in.Name,
		Description:  in.Description,
		UnitMeasure:  in.UnitMeasure,
		Discrete:     in.Discrete,
		MinimumStock: in.MinimumStock,
		ReorderPoint: in.ReorderPoint,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	resp := dto.NewProductResponse(product)
	return &resp, nil
}

// GetByID devuelve un producto de la empresa del actor.
func (uc *ProductUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.ProductResponse, error) {
	product, err := uc.get(actor, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewProductResponse(product)
	return &resp, nil
}

// List lista los productos de la empresa.
func (uc *ProductUseCase) List(ctx context.Context, actor entity.Actor, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	products, err := uc.productRepo.ListByCompany(actor.CompanyID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, dto.NewProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update actualiza campos de un producto (parcial: solo los presentes).
// Cambiar Discrete no revalida el historial: las filas ya escritas son hechos.
func (uc *ProductUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.get(actor, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.UnitMeasure != nil {
		product.UnitMeasure = *in.UnitMeasure
	}
	if in.Discrete != nil {
		product.Discrete = *in.Discrete
	}
	if in.MinimumStock != nil {
		product.MinimumStock = *in.MinimumStock
	}
	if in.ReorderPoint != nil {
		product.ReorderPoint = *in.ReorderPoint
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	resp := dto.NewProductResponse(product)
	return &resp, nil
}

// Delete elimina un producto. Si ya tiene filas de stock (y por tanto
// historial) solo se desactiva.
func (uc *ProductUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	product, err := uc.get(actor, id)
	if err != nil {
		return err
	}
	stocks, err := uc.stockRepo.ListByProduct(id)
	if err != nil {
		return fmt.Errorf("consultar stock del producto: %w", err)
	}
	if len(stocks) > 0 {
		product.IsActive = false
		product.UpdatedAt = time.Now()
		return uc.productRepo.Update(product)
	}
	return uc.productRepo.Delete(id)
}

func (uc *ProductUseCase) get(actor entity.Actor, id string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("consultar producto: %w", err)
	}
	if product == nil || product.CompanyID != actor.CompanyID {
		return nil, domain.ErrNotFound
	}
	return product, nil
}
