package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/grocery-api/internal/domain/entity"
)

// ProductPatch campos editables de un producto; nil deja la columna como está.
type ProductPatch struct {
	Name              *string
	UnitType          *string
	RatePerUnit       *decimal.Decimal
	QuantityAvailable *int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// GetForUpdate obtiene el producto bloqueando la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	// Update escribe solo las columnas presentes en patch y devuelve la fila resultante,
	// o nil si el producto no existe. El stock no se pisa si patch no lo trae.
	Update(ctx context.Context, id int64, patch ProductPatch) (*entity.Product, error)
	Delete(ctx context.Context, id int64) error
	DecrementStock(ctx context.Context, id int64, quantity int) error
	CountBySection(ctx context.Context, sectionID int64) (int, error)
	List(ctx context.Context) ([]*entity.Product, error)
}
