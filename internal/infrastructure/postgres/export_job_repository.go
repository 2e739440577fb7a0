package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/grocery-api/internal/domain"
	"github.com/jhoicas/grocery-api/internal/domain/entity"
	"github.com/jhoicas/grocery-api/internal/domain/repository"
)

var _ repository.ExportJobRepository = (*ExportJobRepo)(nil)

const exportJobColumns = `id::text, status, file_path, error, requested_by, created_at, finished_at`

// ExportJobRepo implementación del puerto ExportJobRepository sobre PostgreSQL.
type ExportJobRepo struct {
	q Querier
}

// NewExportJobRepository construye el adaptador de trabajos de exportación.
func NewExportJobRepository(q Querier) *ExportJobRepo {
	return &ExportJobRepo{q: q}
}

func (r *ExportJobRepo) Create(ctx context.Context, job *entity.ExportJob) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO export_jobs (id, status, requested_by, created_at)
		VALUES ($1::text::uuid, $2, $3, $4)`,
		job.ID, job.Status, job.RequestedBy, job.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert export job: %w", err)
	}
	return nil
}

func (r *ExportJobRepo) GetByID(ctx context.Context, id string) (*entity.ExportJob, error) {
	return r.findOne(ctx, `SELECT `+exportJobColumns+` FROM export_jobs WHERE id = $1::text::uuid`, id)
}

func (r *ExportJobRepo) MarkRunning(ctx context.Context, id string) error {
	return r.exec(ctx, `UPDATE export_jobs SET status = 'running' WHERE id = $1::text::uuid`, id)
}

func (r *ExportJobRepo) MarkDone(ctx context.Context, id, filePath string, at time.Time) error {
	return r.exec(ctx,
		`UPDATE export_jobs SET status = 'done', file_path = $2, error = '', finished_at = $3 WHERE id = $1::text::uuid`,
		id, filePath, at,
	)
}

func (r *ExportJobRepo) MarkFailed(ctx context.Context, id, reason string, at time.Time) error {
	return r.exec(ctx,
		`UPDATE export_jobs SET status = 'failed', error = $2, finished_at = $3 WHERE id = $1::text::uuid`,
		id, reason, at,
	)
}

// LatestDone devuelve el trabajo exitoso más reciente, o nil si no hay ninguno.
func (r *ExportJobRepo) LatestDone(ctx context.Context) (*entity.ExportJob, error) {
	return r.findOne(ctx, `
		SELECT `+exportJobColumns+` FROM export_jobs
		WHERE status = 'done'
		ORDER BY finished_at DESC
		LIMIT 1`)
}

func (r *ExportJobRepo) exec(ctx context.Context, query string, args ...any) error {
	cmd, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update export job: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ExportJobRepo) findOne(ctx context.Context, query string, args ...any) (*entity.ExportJob, error) {
	var j entity.ExportJob
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&j.ID, &j.Status, &j.FilePath, &j.Error, &j.RequestedBy, &j.CreatedAt, &j.FinishedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get export job: %w", err)
	}
	return &j, nil
}
