package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem línea del carrito enviada por el cliente. productName y price son la foto que ve el cliente.
type CartItem struct {
	ProductID   int64            `json:"product_id" validate:"required"`
	Quantity    int              `json:"quantity" validate:"required,min=1"`
	ProductName string           `json:"productName"`
	Price       *decimal.Decimal `json:"price"`
}

// CheckoutRequest entrada de /buy-items.
type CheckoutRequest struct {
	Items []CartItem `json:"items" validate:"required,min=1,dive"`
}

// OrderItemResponse línea del historial.
type OrderItemResponse struct {
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// OrderResponse orden del historial con sus líneas.
type OrderResponse struct {
	OrderID   int64               `json:"order_id"`
	Timestamp time.Time           `json:"timestamp"`
	Items     []OrderItemResponse `json:"items"`
}
