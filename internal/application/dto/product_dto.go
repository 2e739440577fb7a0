package dto

import "github.com/shopspring/decimal"

// CreateProductRequest entrada para agregar un producto a una sección.
// Los punteros distinguen "ausente" de "cero" para validar campos requeridos.
type CreateProductRequest struct {
	Name              string           `json:"name" validate:"required,min=1,max=255"`
	UnitType          string           `json:"unit_type" validate:"required,max=50"`
	RatePerUnit       *decimal.Decimal `json:"rate_per_unit" validate:"required"`
	QuantityAvailable *int             `json:"quantity_available" validate:"required,min=0"`
	SectionID         int64            `json:"section_id"`
}

// UpdateProductRequest entrada para actualización parcial de un producto.
type UpdateProductRequest struct {
	Name              *string          `json:"name" validate:"omitempty,min=1,max=255"`
	UnitType          *string          `json:"unit_type"`
	RatePerUnit       *decimal.Decimal `json:"rate_per_unit"`
	QuantityAvailable *int             `json:"quantity_available"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	UnitType          string          `json:"unit_type"`
	RatePerUnit       decimal.Decimal `json:"rate_per_unit"`
	QuantityAvailable int             `json:"quantity_available"`
	SectionID         int64           `json:"section_id"`
}

// ProductCreatedResponse salida de alta de producto.
type ProductCreatedResponse struct {
	Message   string `json:"message"`
	ProductID int64  `json:"product_id"`
}
