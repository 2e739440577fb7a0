package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/grocery-api/internal/domain"
	"github.com/jhoicas/grocery-api/internal/domain/entity"
	"github.com/jhoicas/grocery-api/internal/domain/repository"
)

var _ repository.SectionRequestRepository = (*SectionRequestRepo)(nil)

const sectionRequestColumns = `id, request_type, section_id, section_name, status, requested_by,
	resolved_by, resolved_at, rejection_reason, created_at`

// SectionRequestRepo implementación del puerto SectionRequestRepository sobre PostgreSQL.
type SectionRequestRepo struct {
	q Querier
}

// NewSectionRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSectionRequestRepository(q Querier) *SectionRequestRepo {
	return &SectionRequestRepo{q: q}
}

// Create persiste la solicitud en estado pending.
func (r *SectionRequestRepo) Create(ctx context.Context, req *entity.SectionRequest) error {
	query := `
		INSERT INTO section_requests (request_type, section_id, section_name, status, requested_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		req.RequestType, req.SectionID, req.SectionName, req.Status, req.RequestedBy, req.CreatedAt,
	).Scan(&req.ID)
	if err != nil {
		return fmt.Errorf("insert section request: %w", err)
	}
	return nil
}

func (r *SectionRequestRepo) GetByID(ctx context.Context, id int64) (*entity.SectionRequest, error) {
	return r.findOne(ctx, `SELECT `+sectionRequestColumns+` FROM section_requests WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila hasta el fin de la transacción; una segunda aprobación
// concurrente espera aquí y luego ve el estado terminal.
func (r *SectionRequestRepo) GetForUpdate(ctx context.Context, id int64) (*entity.SectionRequest, error) {
	return r.findOne(ctx, `SELECT `+sectionRequestColumns+` FROM section_requests WHERE id = $1 FOR UPDATE`, id)
}

// SaveResolution escribe el estado terminal con guarda status = 'pending'.
func (r *SectionRequestRepo) SaveResolution(ctx context.Context, req *entity.SectionRequest) error {
	query := `
		UPDATE section_requests
		SET status = $2, section_id = $3, resolved_by = $4, resolved_at = $5, rejection_reason = $6
		WHERE id = $1 AND status = 'pending'`
	cmd, err := r.q.Exec(ctx, query,
		req.ID, req.Status, req.SectionID, req.ResolvedBy, req.ResolvedAt, req.RejectionReason,
	)
	if err != nil {
		return fmt.Errorf("resolve section request: %w", err)
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}
	existing, err := r.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	return domain.ErrAlreadyResolved
}

func (r *SectionRequestRepo) ListByStatus(ctx context.Context, status string) ([]*entity.SectionRequest, error) {
	return r.findMany(ctx, `SELECT `+sectionRequestColumns+` FROM section_requests WHERE status = $1 ORDER BY id`, status)
}

func (r *SectionRequestRepo) ListByRequester(ctx context.Context, userID int64) ([]*entity.SectionRequest, error) {
	return r.findMany(ctx, `SELECT `+sectionRequestColumns+` FROM section_requests WHERE requested_by = $1 ORDER BY id`, userID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSectionRequest(row rowScanner) (*entity.SectionRequest, error) {
	var req entity.SectionRequest
	err := row.Scan(
		&req.ID, &req.RequestType, &req.SectionID, &req.SectionName, &req.Status, &req.RequestedBy,
		&req.ResolvedBy, &req.ResolvedAt, &req.RejectionReason, &req.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *SectionRequestRepo) findOne(ctx context.Context, query string, id int64) (*entity.SectionRequest, error) {
	req, err := scanSectionRequest(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get section request: %w", err)
	}
	return req, nil
}

func (r *SectionRequestRepo) findMany(ctx context.Context, query string, arg any) ([]*entity.SectionRequest, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list section requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.SectionRequest
	for rows.Next() {
		req, err := scanSectionRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan section request: %w", err)
		}
		list = append(list, req)
	}
	return list, rows.Err()
}
