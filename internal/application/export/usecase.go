// Package export gestiona las exportaciones CSV asíncronas del catálogo.
// La petición HTTP solo registra el trabajo y lo encola; el worker escribe un archivo por trabajo.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/grocery-api/internal/application/dto"
	"github.com/jhoicas/grocery-api/internal/application/ports"
	"github.com/jhoicas/grocery-api/internal/domain"
	"github.com/jhoicas/grocery-api/internal/domain/entity"
	"github.com/jhoicas/grocery-api/internal/domain/repository"
)

// UseCase inicio, consulta y procesamiento de exportaciones.
type UseCase struct {
	jobs     repository.ExportJobRepository
	products repository.ProductRepository
	queue    ports.ExportQueue
	writer   ports.ArtifactWriter
	now      func() time.Time
}

// NewUseCase construye el caso de uso. queue solo se usa en la API y writer solo en el worker;
// cualquiera de los dos puede ser nil en el proceso que no lo necesita.
func NewUseCase(
	jobs repository.ExportJobRepository,
	products repository.ProductRepository,
	queue ports.ExportQueue,
	writer ports.ArtifactWriter,
) *UseCase {
	return &UseCase{jobs: jobs, products: products, queue: queue, writer: writer, now: time.Now}
}

// Start registra un trabajo pending y lo encola. Si el encolado falla el trabajo queda failed.
func (uc *UseCase) Start(ctx context.Context, requestedBy int64) (*dto.ExportStartedResponse, error) {
	job := &entity.ExportJob{
		ID:          uuid.NewString(),
		Status:      entity.ExportStatusPending,
		RequestedBy: requestedBy,
		CreatedAt:   uc.now().UTC(),
	}
	if err := uc.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	if err := uc.queue.EnqueueExport(ctx, job.ID); err != nil {
		if markErr := uc.jobs.MarkFailed(ctx, job.ID, err.Error(), uc.now().UTC()); markErr != nil {
			return nil, fmt.Errorf("encolar exportación %s: %w (marcar failed: %v)", job.ID, err, markErr)
		}
		return nil, fmt.Errorf("encolar exportación %s: %w", job.ID, err)
	}
	return &dto.ExportStartedResponse{Message: "CSV Export Started", JobID: job.ID}, nil
}

// Status devuelve el estado del trabajo.
func (uc *UseCase) Status(ctx context.Context, jobID string) (*dto.ExportJobResponse, error) {
	job, err := uc.get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return &dto.ExportJobResponse{
		JobID:      job.ID,
		Status:     job.Status,
		Error:      job.Error,
		CreatedAt:  job.CreatedAt,
		FinishedAt: job.FinishedAt,
	}, nil
}

// ArtifactPath devuelve la ruta del CSV de un trabajo terminado.
// pending/running → domain.ErrExportNotReady; failed → domain.ErrExportFailed; desconocido → domain.ErrNotFound.
func (uc *UseCase) ArtifactPath(ctx context.Context, jobID string) (string, error) {
	job, err := uc.get(ctx, jobID)
	if err != nil {
		return "", err
	}
	switch job.Status {
	case entity.ExportStatusDone:
		return job.FilePath, nil
	case entity.ExportStatusFailed:
		return "", fmt.Errorf("%w: %s", domain.ErrExportFailed, job.Error)
	default:
		return "", domain.ErrExportNotReady
	}
}

// LatestArtifactPath devuelve el CSV del último trabajo terminado con éxito.
func (uc *UseCase) LatestArtifactPath(ctx context.Context) (string, error) {
	job, err := uc.jobs.LatestDone(ctx)
	if err != nil {
		return "", err
	}
	if job == nil {
		return "", domain.ErrNotFound
	}
	return job.FilePath, nil
}

// Process ejecuta el trabajo: running → escribe el CSV → done, o failed con el error.
// Un trabajo que ya no está pending se ignora (reentrega de la cola).
func (uc *UseCase) Process(ctx context.Context, jobID string) error {
	job, err := uc.get(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status != entity.ExportStatusPending && job.Status != entity.ExportStatusRunning {
		return nil
	}
	if err := uc.jobs.MarkRunning(ctx, jobID); err != nil {
		return err
	}
	path, err := uc.write(ctx, jobID)
	if err != nil {
		if markErr := uc.jobs.MarkFailed(ctx, jobID, err.Error(), uc.now().UTC()); markErr != nil {
			return fmt.Errorf("%w (marcar failed: %v)", err, markErr)
		}
		return err
	}
	return uc.jobs.MarkDone(ctx, jobID, path, uc.now().UTC())
}

func (uc *UseCase) write(ctx context.Context, jobID string) (string, error) {
	products, err := uc.products.List(ctx)
	if err != nil {
		return "", fmt.Errorf("listar productos: %w", err)
	}
	return uc.writer.WriteProducts(ctx, jobID, products)
}

func (uc *UseCase) get(ctx context.Context, jobID string) (*entity.ExportJob, error) {
	if _, err := uuid.Parse(jobID); err != nil {
		return nil, domain.ErrNotFound
	}
	job, err := uc.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}
	return job, nil
}
