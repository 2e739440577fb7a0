package repository

import (
	"context"

	"github.com/jhoicas/grocery-api/internal/domain/entity"
)

// SectionRequestRepository define el puerto de persistencia para SectionRequest.
type SectionRequestRepository interface {
	Create(ctx context.Context, req *entity.SectionRequest) error
	GetByID(ctx context.Context, id int64) (*entity.SectionRequest, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para serializar aprobaciones concurrentes.
	GetForUpdate(ctx context.Context, id int64) (*entity.SectionRequest, error)
	// SaveResolution persiste el estado terminal solo si la fila sigue en pending;
	// si no, devuelve domain.ErrAlreadyResolved.
	SaveResolution(ctx context.Context, req *entity.SectionRequest) error
	ListByStatus(ctx context.Context, status string) ([]*entity.SectionRequest, error)
	ListByRequester(ctx context.Context, userID int64) ([]*entity.SectionRequest, error)
}
