package repository

import (
	"context"
	"time"

	"github.com/jhoicas/grocery-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para Order y OrderItem.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	AddItem(ctx context.Context, item *entity.OrderItem) error
	// ListByUser devuelve las órdenes del usuario con sus líneas, en orden de creación.
	ListByUser(ctx context.Context, userID int64) ([]*entity.Order, error)
	// ListByUserBetween filtra por timestamp en [from, to).
	ListByUserBetween(ctx context.Context, userID int64, from, to time.Time) ([]*entity.Order, error)
}
