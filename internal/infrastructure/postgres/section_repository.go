package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/grocery-api/internal/domain"
	"github.com/jhoicas/grocery-api/internal/domain/entity"
	"github.com/jhoicas/grocery-api/internal/domain/repository"
)

var _ repository.SectionRepository = (*SectionRepo)(nil)

// SectionRepo implementación del puerto SectionRepository sobre PostgreSQL.
type SectionRepo struct {
	q Querier
}

// NewSectionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSectionRepository(q Querier) *SectionRepo {
	return &SectionRepo{q: q}
}

func (r *SectionRepo) Create(ctx context.Context, section *entity.Section) error {
	err := r.q.QueryRow(ctx, `INSERT INTO sections (name) VALUES ($1) RETURNING id`, section.Name).Scan(&section.ID)
	if err != nil {
		return fmt.Errorf("insert section: %w", err)
	}
	return nil
}

func (r *SectionRepo) GetByID(ctx context.Context, id int64) (*entity.Section, error) {
	var s entity.Section
	err := r.q.QueryRow(ctx, `SELECT id, name FROM sections WHERE id = $1`, id).Scan(&s.ID, &s.Name)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get section: %w", err)
	}
	return &s, nil
}

func (r *SectionRepo) Update(ctx context.Context, section *entity.Section) error {
	cmd, err := r.q.Exec(ctx, `UPDATE sections SET name = $2 WHERE id = $1`, section.ID, section.Name)
	if err != nil {
		return fmt.Errorf("update section: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la sección. La FK ON DELETE RESTRICT de products se traduce a ErrSectionNotEmpty.
func (r *SectionRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM sections WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrSectionNotEmpty
		}
		return fmt.Errorf("delete section: %w", err)
	}
	return nil
}

func (r *SectionRepo) List(ctx context.Context) ([]*entity.Section, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name FROM sections ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()
	var list []*entity.Section
	for rows.Next() {
		var s entity.Section
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
