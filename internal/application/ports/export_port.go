package ports

import (
	"context"

	"github.com/jhoicas/grocery-api/internal/domain/entity"
)

// ExportQueue encola trabajos de exportación para un worker en segundo plano.
type ExportQueue interface {
	EnqueueExport(ctx context.Context, jobID string) error
}

// ArtifactWriter escribe el artefacto de un trabajo y devuelve su ruta.
// Cada jobID produce un archivo distinto.
type ArtifactWriter interface {
	WriteProducts(ctx context.Context, jobID string, products []*entity.Product) (string, error)
}
