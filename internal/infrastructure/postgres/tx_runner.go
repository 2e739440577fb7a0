package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/grocery-api/internal/application/order"
	"github.com/jhoicas/grocery-api/internal/application/sectionrequest"
	"github.com/jhoicas/grocery-api/internal/domain/repository"
)

var _ sectionrequest.TxRunner = (*TxRunner)(nil)
var _ order.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunWorkflow resuelve una solicitud de sección y aplica su efecto en la misma transacción.
func (r *TxRunner) RunWorkflow(ctx context.Context, fn func(
	reqRepo repository.SectionRequestRepository,
	sectionRepo repository.SectionRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewSectionRequestRepository(tx), NewSectionRepository(tx), NewProductRepository(tx))
	})
}

// RunCheckout crea la orden, sus líneas y descuenta stock en una sola transacción.
func (r *TxRunner) RunCheckout(ctx context.Context, fn func(
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewUserRepository(tx), NewProductRepository(tx), NewOrderRepository(tx))
	})
}

// run inicia una transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
