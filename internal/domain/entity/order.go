package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order representa una compra confirmada por un usuario.
type Order struct {
	ID        int64
	UserID    int64
	Timestamp time.Time
	Items     []OrderItem
}

// OrderItem es una línea de la orden. ProductName y Price son fotos del momento de compra.
type OrderItem struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	Quantity    int
	Price       decimal.Decimal
}

// Amount devuelve quantity * price.
func (i OrderItem) Amount() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Total suma el importe de todas las líneas.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Amount())
	}
	return total
}
