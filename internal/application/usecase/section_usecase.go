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

// SectionUseCase CRUD directo de secciones (solo admin). Cada escritura invalida la caché del catálogo.
type SectionUseCase struct {
	repo        repository.SectionRepository
	invalidator ports.CatalogInvalidator
}

// NewSectionUseCase construye el caso de uso.
func NewSectionUseCase(repo repository.SectionRepository, invalidator ports.CatalogInvalidator) *SectionUseCase {
	return &SectionUseCase{repo: repo, invalidator: invalidator}
}

// Create crea una sección.
func (uc *SectionUseCase) Create(ctx context.Context, in dto.SectionRequestBody) (*dto.SectionResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	section := &entity.Section{Name: name}
	if err := uc.repo.Create(ctx, section); err != nil {
		return nil, err
	}
	uc.invalidator.InvalidateCatalog(ctx)
	return toSectionResponse(section), nil
}

// GetByID obtiene una sección por ID.
func (uc *SectionUseCase) GetByID(ctx context.Context, id int64) (*dto.SectionResponse, error) {
	section, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if section == nil {
		return nil, domain.ErrNotFound
	}
	return toSectionResponse(section), nil
}

// Update renombra una sección.
func (uc *SectionUseCase) Update(ctx context.Context, id int64, in dto.SectionRequestBody) (*dto.SectionResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	section, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if section == nil {
		return nil, domain.ErrNotFound
	}
	section.Name = name
	if err := uc.repo.Update(ctx, section); err != nil {
		return nil, err
	}
	uc.invalidator.InvalidateCatalog(ctx)
	return toSectionResponse(section), nil
}

// Delete elimina una sección vacía. Con productos asociados devuelve domain.ErrSectionNotEmpty.
func (uc *SectionUseCase) Delete(ctx context.Context, id int64) error {
	section, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if section == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.invalidator.InvalidateCatalog(ctx)
	return nil
}

func toSectionResponse(s *entity.Section) *dto.SectionResponse {
	if s == nil {
		return nil
	}
	return &dto.SectionResponse{ID: s.ID, Name: s.Name}
}
