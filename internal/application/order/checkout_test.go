package order_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/grocery-api/internal/application/dto"
	"github.com/jhoicas/grocery-api/internal/application/order"
	"github.com/jhoicas/grocery-api/internal/domain"
	"github.com/jhoicas/grocery-api/internal/domain/entity"
	"github.com/jhoicas/grocery-api/internal/infrastructure/memory"
)

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) InvalidateCatalog(context.Context) { c.calls++ }

type fixture struct {
	store   *memory.Store
	uc      *order.UseCase
	inv     *countingInvalidator
	user    *entity.User
	product *entity.Product
}

// newFixture crea un cliente "ana" y el producto 1 (Milk) con stock 10.
func newFixture(t *testing.T, opts order.Options) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	user := &entity.User{Username: "ana", Role: entity.RoleUser, Status: entity.StatusApproved}
	require.NoError(t, store.Users().Create(ctx, user))
	section := &entity.Section{Name: "Dairy"}
	require.NoError(t, store.Sections().Create(ctx, section))
	product := &entity.Product{
		SectionID:         section.ID,
		Name:              "Milk",
		UnitType:          "litre",
		RatePerUnit:       decimal.RequireFromString("1.25"),
		QuantityAvailable: 10,
	}
	require.NoError(t, store.Products().Create(ctx, product))

	inv := &countingInvalidator{}
	uc := order.NewUseCase(store, store.Users(), store.Orders(), inv, opts)
	return &fixture{store: store, uc: uc, inv: inv, user: user, product: product}
}

func (f *fixture) stock(t *testing.T) int {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), f.product.ID)
	require.NoError(t, err)
	return p.QuantityAvailable
}

func (f *fixture) orders(t *testing.T) []*entity.Order {
	t.Helper()
	list, err := f.store.Orders().ListByUser(context.Background(), f.user.ID)
	require.NoError(t, err)
	return list
}

func TestCheckout_DescuentaStockYCreaUnaOrden(t *testing.T) {
	f := newFixture(t, order.Options{})

	orderID, err := f.uc.Checkout(context.Background(), "ana", dto.CheckoutRequest{
		Items: []dto.CartItem{{ProductID: f.product.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.NotZero(t, orderID)

	assert.Equal(t, 7, f.stock(t))
	orders := f.orders(t)
	require.Len(t, orders, 1)
	assert.Equal(t, orderID, orders[0].ID)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, 3, orders[0].Items[0].Quantity)
	assert.Equal(t, 1, f.inv.calls)
}

func TestCheckout_ProductoInexistenteNoDejaFilasParciales(t *testing.T) {
	f := newFixture(t, order.Options{})

	_, err := f.uc.Checkout(context.Background(), "ana", dto.CheckoutRequest{
		Items: []dto.CartItem{
			{ProductID: f.product.ID, Quantity: 3},
			{ProductID: 999, Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, 10, f.stock(t), "el stock del primer ítem se revierte")
	assert.Empty(t, f.orders(t), "no queda la orden a medias")
	assert.Zero(t, f.inv.calls)
}

func TestCheckout_StockInsuficienteSeRechaza(t *testing.T) {
	f := newFixture(t, order.Options{})

	_, err := f.uc.Checkout(context.Background(), "ana", dto.CheckoutRequest{
		Items: []dto.CartItem{{ProductID: f.product.ID, Quantity: 11}},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 10, f.stock(t))
	assert.Empty(t, f.orders(t))
}

func TestCheckout_StockInsuficienteConLineasRepetidas(t *testing.T) {
	f := newFixture(t, order.Options{})

	_, err := f.uc.Checkout(context.Background(), "ana", dto.CheckoutRequest{
		Items: []dto.CartItem{
			{ProductID: f.product.ID, Quantity: 6},
			{ProductID: f.product.ID, Quantity: 6},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 10, f.stock(t))
}

func TestCheckout_PoliticaPermiteStockNegativo(t *testing.T) {
	f := newFixture(t, order.Options{AllowNegativeStock: true})

	_, err := f.uc.Checkout(context.Background(), "ana", dto.CheckoutRequest{
		Items: []dto.CartItem{{ProductID: f.product.ID, Quantity: 12}},
	})
	require.NoError(t, err)
	assert.Equal(t, -2, f.stock(t))
}

func TestCheckout_FotoDelClienteOPorDefectoDelProducto(t *testing.T) {
	f := newFixture(t, order.Options{})
	price := decimal.RequireFromString("0.99")

	_, err := f.uc.Checkout(context.Background(), "ana", dto.CheckoutRequest{
		Items: []dto.CartItem{
			{ProductID: f.product.ID, Quantity: 1, ProductName: "Leche", Price: &price},
			{ProductID: f.product.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)

	items := f.orders(t)[0].Items
	require.Len(t, items, 2)
	assert.Equal(t, "Leche", items[0].ProductName)
	assert.True(t, price.Equal(items[0].Price))
	assert.Equal(t, "Milk", items[1].ProductName)
	assert.True(t, decimal.RequireFromString("1.25").Equal(items[1].Price))
}

func TestCheckout_TocaLastActivity(t *testing.T) {
	f := newFixture(t, order.Options{})
	_, err := f.uc.Checkout(context.Background(), "ana", dto.CheckoutRequest{
		Items: []dto.CartItem{{ProductID: f.product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	u, err := f.store.Users().GetByUsername(context.Background(), "ana")
	require.NoError(t, err)
	assert.False(t, u.LastActivity.IsZero())
}

func TestCheckout_CarritoInvalido(t *testing.T) {
	f := newFixture(t, order.Options{})
	ctx := context.Background()
	neg := decimal.NewFromInt(-1)

	cases := map[string]dto.CheckoutRequest{
		"vacío":           {},
		"cantidad cero":   {Items: []dto.CartItem{{ProductID: f.product.ID, Quantity: 0}}},
		"sin producto":    {Items: []dto.CartItem{{Quantity: 1}}},
		"precio negativo": {Items: []dto.CartItem{{ProductID: f.product.ID, Quantity: 1, Price: &neg}}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.uc.Checkout(ctx, "ana", in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestHistory_OrdenesConLineas(t *testing.T) {
	f := newFixture(t, order.Options{})
	ctx := context.Background()
	for _, q := range []int{1, 2} {
		_, err := f.uc.Checkout(ctx, "ana", dto.CheckoutRequest{
			Items: []dto.CartItem{{ProductID: f.product.ID, Quantity: q}},
		})
		require.NoError(t, err)
	}

	history, err := f.uc.History(ctx, "ana")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Less(t, history[0].OrderID, history[1].OrderID)
	assert.Equal(t, 1, history[0].Items[0].Quantity)
	assert.Equal(t, 2, history[1].Items[0].Quantity)

	_, err = f.uc.History(ctx, "nadie")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
