package repository

import (
	"context"
	"time"

	"github.com/jhoicas/grocery-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los Get devuelven (nil, nil) cuando el registro no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	TouchLastActivity(ctx context.Context, id int64, at time.Time) error
	// ListByRole lista por rol; status vacío no filtra por estado.
	ListByRole(ctx context.Context, role, status string) ([]*entity.User, error)
	// ListInactive lista usuarios aprobados del rol cuya última actividad es anterior a before.
	ListInactive(ctx context.Context, role string, before time.Time) ([]*entity.User, error)
}
