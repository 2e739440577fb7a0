package order

import (
	"context"

	"github.com/jhoicas/grocery-api/internal/domain/repository"
)

// TxRunner ejecuta el checkout completo en una transacción: orden, líneas, stock y last_activity.
type TxRunner interface {
	RunCheckout(ctx context.Context, fn func(
		userRepo repository.UserRepository,
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
	) error) error
}
