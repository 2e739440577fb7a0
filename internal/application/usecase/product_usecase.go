package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/grocery-api/internal/application/dto"
	"github.com/jhoicas/grocery-api/internal/application/ports"
	"github.com/jhoicas/grocery-api/internal/domain"
	"github.com/jhoicas/grocery-api/internal/domain/entity"
	"github.com/jhoicas/grocery-api/internal/domain/repository"
)

// ProductUseCase CRUD de productos para gerentes de tienda. El stock también baja vía checkout.
type ProductUseCase struct {
	repo        repository.ProductRepository
	sections    repository.SectionRepository
	invalidator ports.CatalogInvalidator
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	sections repository.SectionRepository,
	invalidator ports.CatalogInvalidator,
) *ProductUseCase {
	return &ProductUseCase{repo: repo, sections: sections, invalidator: invalidator}
}

// Create agrega un producto a sectionID. La sección de la ruta prevalece sobre la del body.
func (uc *ProductUseCase) Create(ctx context.Context, sectionID int64, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	unitType := strings.TrimSpace(in.UnitType)
	if name == "" || unitType == "" || in.RatePerUnit == nil || in.QuantityAvailable == nil {
		return nil, domain.ErrInvalidInput
	}
	if in.RatePerUnit.IsNegative() || *in.QuantityAvailable < 0 {
		return nil, domain.ErrInvalidInput
	}
	section, err := uc.sections.GetByID(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	if section == nil {
		return nil, domain.ErrNotFound
	}
	product := &entity.Product{
		SectionID:         section.ID,
		Name:              name,
		UnitType:          unitType,
		RatePerUnit:       *in.RatePerUnit,
		QuantityAvailable: *in.QuantityAvailable,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	uc.invalidator.InvalidateCatalog(ctx)
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update aplica una actualización parcial; solo cambian los campos presentes.
// La escritura toca únicamente esas columnas, así que no pisa el stock descontado por un checkout concurrente.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var patch repository.ProductPatch
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		patch.Name = &name
	}
	if in.UnitType != nil {
		unitType := strings.TrimSpace(*in.UnitType)
		if unitType == "" {
			return nil, domain.ErrInvalidInput
		}
		patch.UnitType = &unitType
	}
	if in.RatePerUnit != nil {
		if in.RatePerUnit.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		patch.RatePerUnit = in.RatePerUnit
	}
	if in.QuantityAvailable != nil {
		if *in.QuantityAvailable < 0 {
			return nil, domain.ErrInvalidInput
		}
		patch.QuantityAvailable = in.QuantityAvailable
	}
	product, err := uc.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	uc.invalidator.InvalidateCatalog(ctx)
	return toProductResponse(product), nil
}

// Delete elimina un producto por ID.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.invalidator.InvalidateCatalog(ctx)
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:                p.ID,
		Name:              p.Name,
		UnitType:          p.UnitType,
		RatePerUnit:       p.RatePerUnit,
		QuantityAvailable: p.QuantityAvailable,
		SectionID:         p.SectionID,
	}
}
