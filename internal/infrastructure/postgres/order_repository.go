package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/grocery-api/internal/domain"
	"github.com/jhoicas/grocery-api/internal/domain/entity"
	"github.com/jhoicas/grocery-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de órdenes. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste la cabecera de la orden.
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO orders (user_id, timestamp) VALUES ($1, $2) RETURNING id`,
		order.UserID, order.Timestamp,
	).Scan(&order.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// AddItem persiste una línea de la orden con la foto de nombre y precio.
func (r *OrderRepo) AddItem(ctx context.Context, item *entity.OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, product_id, product_name, quantity, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		item.OrderID, item.ProductID, item.ProductName, item.Quantity, item.Price,
	).Scan(&item.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID int64) ([]*entity.Order, error) {
	return r.ListByUserBetween(ctx, userID, time.Time{}, time.Time{})
}

// ListByUserBetween lista órdenes con timestamp en [from, to). Un límite cero no filtra.
func (r *OrderRepo) ListByUserBetween(ctx context.Context, userID int64, from, to time.Time) ([]*entity.Order, error) {
	var fromArg, toArg *time.Time
	if !from.IsZero() {
		fromArg = &from
	}
	if !to.IsZero() {
		toArg = &to
	}
	query := `
		SELECT o.id, o.user_id, o.timestamp,
		       i.id, i.product_id, i.product_name, i.quantity, i.price
		FROM orders o
		LEFT JOIN order_items i ON i.order_id = o.id
		WHERE o.user_id = $1
		  AND ($2::timestamptz IS NULL OR o.timestamp >= $2)
		  AND ($3::timestamptz IS NULL OR o.timestamp < $3)
		ORDER BY o.id, i.id`
	rows, err := r.q.Query(ctx, query, userID, fromArg, toArg)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var list []*entity.Order
	var current *entity.Order
	for rows.Next() {
		var (
			o         entity.Order
			itemID    *int64
			productID *int64
			name      *string
			quantity  *int
			price     decimal.NullDecimal
		)
		if err := rows.Scan(&o.ID, &o.UserID, &o.Timestamp, &itemID, &productID, &name, &quantity, &price); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if current == nil || current.ID != o.ID {
			o.Items = []entity.OrderItem{}
			current = &o
			list = append(list, current)
		}
		if itemID == nil {
			continue
		}
		current.Items = append(current.Items, entity.OrderItem{
			ID:          *itemID,
			OrderID:     o.ID,
			ProductID:   *productID,
			ProductName: *name,
			Quantity:    *quantity,
			Price:       price.Decimal,
		})
	}
	return list, rows.Err()
}
