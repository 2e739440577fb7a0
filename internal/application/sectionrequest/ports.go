package sectionrequest

import (
	"context"

	"github.com/jhoicas/grocery-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// La resolución de una solicitud y su efecto sobre el catálogo se confirman o revierten juntos.
type TxRunner interface {
	RunWorkflow(ctx context.Context, fn func(
		reqRepo repository.SectionRequestRepository,
		sectionRepo repository.SectionRepository,
		productRepo repository.ProductRepository,
	) error) error
}
