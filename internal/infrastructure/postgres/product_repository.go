package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/grocery-api/internal/domain"
	"github.com/jhoicas/grocery-api/internal/domain/entity"
	"github.com/jhoicas/grocery-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, section_id, name, unit_type, rate_per_unit, quantity_available`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. Una sección inexistente se reporta como ErrNotFound.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (section_id, name, unit_type, rate_per_unit, quantity_available)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		product.SectionID, product.Name, product.UnitType, product.RatePerUnit, product.QuantityAvailable,
	).Scan(&product.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	return r.findOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetForUpdate obtiene el producto con bloqueo de fila hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.findOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

// Update aplica el patch columna por columna en una sola sentencia.
// Las columnas ausentes conservan su valor actual, así un checkout concurrente no se pierde.
func (r *ProductRepo) Update(ctx context.Context, id int64, patch repository.ProductPatch) (*entity.Product, error) {
	query := `
		UPDATE products SET
			name = COALESCE($2, name),
			unit_type = COALESCE($3, unit_type),
			rate_per_unit = COALESCE($4, rate_per_unit),
			quantity_available = COALESCE($5, quantity_available)
		WHERE id = $1
		RETURNING ` + productColumns
	return r.findOne(ctx, query, id, patch.Name, patch.UnitType, patch.RatePerUnit, patch.QuantityAvailable)
}

// Delete elimina un producto. Si ya figura en órdenes la FK lo impide y se devuelve ErrConflict.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// DecrementStock resta quantity al stock disponible.
func (r *ProductRepo) DecrementStock(ctx context.Context, id int64, quantity int) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET quantity_available = quantity_available - $2 WHERE id = $1`,
		id, quantity,
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) CountBySection(ctx context.Context, sectionID int64) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM products WHERE section_id = $1`, sectionID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// List devuelve todos los productos ordenados por ID.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.SectionID, &p.Name, &p.UnitType, &p.RatePerUnit, &p.QuantityAvailable); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

func (r *ProductRepo) findOne(ctx context.Context, query string, args ...any) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.SectionID, &p.Name, &p.UnitType, &p.RatePerUnit, &p.QuantityAvailable,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}
