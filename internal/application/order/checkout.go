package order

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/grocery-api/internal/application/dto"
	"github.com/jhoicas/grocery-api/internal/application/ports"
	"github.com/jhoicas/grocery-api/internal/domain"
	"github.com/jhoicas/grocery-api/internal/domain/entity"
	"github.com/jhoicas/grocery-api/internal/domain/repository"
)

// Options política de stock del checkout.
type Options struct {
	// AllowNegativeStock permite vender más de lo disponible; por defecto se rechaza.
	AllowNegativeStock bool
}

// UseCase compra del carrito e historial de órdenes.
type UseCase struct {
	tx          TxRunner
	users       repository.UserRepository
	orders      repository.OrderRepository
	invalidator ports.CatalogInvalidator
	opts        Options
	now         func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	tx TxRunner,
	users repository.UserRepository,
	orders repository.OrderRepository,
	invalidator ports.CatalogInvalidator,
	opts Options,
) *UseCase {
	return &UseCase{tx: tx, users: users, orders: orders, invalidator: invalidator, opts: opts, now: time.Now}
}

// Checkout registra la orden, una línea por ítem y descuenta el stock, todo o nada.
// Cada producto se bloquea (FOR UPDATE) antes de comprobar y descontar su stock.
// Devuelve el ID de la orden creada.
func (uc *UseCase) Checkout(ctx context.Context, username string, in dto.CheckoutRequest) (int64, error) {
	if err := validateCart(in.Items); err != nil {
		return 0, err
	}
	now := uc.now().UTC()
	var orderID int64
	err := uc.tx.RunCheckout(ctx, func(
		userRepo repository.UserRepository,
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
	) error {
		user, err := userRepo.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUserNotFound
		}

		o := &entity.Order{UserID: user.ID, Timestamp: now}
		if err := orderRepo.Create(ctx, o); err != nil {
			return err
		}

		for _, it := range in.Items {
			product, err := productRepo.GetForUpdate(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			if !uc.opts.AllowNegativeStock && !product.CanFulfil(it.Quantity) {
				return domain.ErrInsufficientStock
			}
			item := snapshot(o.ID, product, it)
			if err := orderRepo.AddItem(ctx, &item); err != nil {
				return err
			}
			if err := productRepo.DecrementStock(ctx, product.ID, it.Quantity); err != nil {
				return err
			}
		}

		if err := userRepo.TouchLastActivity(ctx, user.ID, now); err != nil {
			return err
		}
		orderID = o.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	uc.invalidator.InvalidateCatalog(ctx)
	return orderID, nil
}

// History devuelve las órdenes del usuario en orden de creación, con sus líneas.
func (uc *UseCase) History(ctx context.Context, username string) ([]dto.OrderResponse, error) {
	user, err := uc.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	orders, err := uc.orders.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		items := make([]dto.OrderItemResponse, 0, len(o.Items))
		for _, it := range o.Items {
			items = append(items, dto.OrderItemResponse{
				ProductName: it.ProductName,
				Quantity:    it.Quantity,
				Price:       it.Price,
			})
		}
		out = append(out, dto.OrderResponse{OrderID: o.ID, Timestamp: o.Timestamp, Items: items})
	}
	return out, nil
}

func validateCart(items []dto.CartItem) error {
	if len(items) == 0 {
		return domain.ErrInvalidInput
	}
	for _, it := range items {
		if it.ProductID <= 0 || it.Quantity <= 0 {
			return domain.ErrInvalidInput
		}
		if it.Price != nil && it.Price.IsNegative() {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// snapshot congela nombre y precio de la línea: los que envía el cliente o, si faltan, los del producto.
func snapshot(orderID int64, p *entity.Product, it dto.CartItem) entity.OrderItem {
	name := strings.TrimSpace(it.ProductName)
	if name == "" {
		name = p.Name
	}
	price := p.RatePerUnit
	if it.Price != nil {
		price = *it.Price
	}
	return entity.OrderItem{
		OrderID:     orderID,
		ProductID:   p.ID,
		ProductName: name,
		Quantity:    it.Quantity,
		Price:       price,
	}
}
