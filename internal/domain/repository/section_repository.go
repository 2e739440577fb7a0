package repository

import (
	"context"

	"github.com/jhoicas/grocery-api/internal/domain/entity"
)

// SectionRepository define el puerto de persistencia para Section.
type SectionRepository interface {
	Create(ctx context.Context, section *entity.Section) error
	GetByID(ctx context.Context, id int64) (*entity.Section, error)
	Update(ctx context.Context, section *entity.Section) error
	// Delete devuelve domain.ErrSectionNotEmpty si quedan productos asociados.
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*entity.Section, error)
}
