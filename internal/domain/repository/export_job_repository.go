package repository

import (
	"context"
	"time"

	"github.com/jhoicas/grocery-api/internal/domain/entity"
)

// ExportJobRepository define el puerto de persistencia para ExportJob.
type ExportJobRepository interface {
	Create(ctx context.Context, job *entity.ExportJob) error
	GetByID(ctx context.Context, id string) (*entity.ExportJob, error)
	MarkRunning(ctx context.Context, id string) error
	MarkDone(ctx context.Context, id, filePath string, at time.Time) error
	MarkFailed(ctx context.Context, id, reason string, at time.Time) error
	// LatestDone devuelve el último trabajo finalizado con éxito, o nil.
	LatestDone(ctx context.Context) (*entity.ExportJob, error)
}
