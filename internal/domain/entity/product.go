package entity

import "github.com/shopspring/decimal"

// Product representa un producto comprable que pertenece a exactamente una Section.
type Product struct {
	ID                int64
	SectionID         int64
	Name              string
	UnitType          string
	RatePerUnit       decimal.Decimal
	QuantityAvailable int
}

// CanFulfil informa si hay stock para vender quantity unidades.
func (p *Product) CanFulfil(quantity int) bool {
	return p.QuantityAvailable >= quantity
}
