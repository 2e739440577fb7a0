package ports

import (
	"context"
	"time"
)

// CatalogCache almacén clave/valor de mejor esfuerzo. Nunca es fuente de verdad:
// un error de la caché se trata como un miss.
type CatalogCache interface {
	// Get devuelve (nil, false, nil) en un miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CatalogInvalidator lo implementa el caso de uso del catálogo; lo llaman las escrituras
// después de confirmar la transacción.
type CatalogInvalidator interface {
	InvalidateCatalog(ctx context.Context)
}
