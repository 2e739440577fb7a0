package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/jhoicas/grocery-api/internal/application/dto"
	"github.com/jhoicas/grocery-api/internal/application/ports"
	"github.com/jhoicas/grocery-api/internal/domain/repository"
	"github.com/jhoicas/grocery-api/pkg/logger"
)

// CatalogCacheKey clave fija del listado sección+productos.
const CatalogCacheKey = "sections_with_products"

const maxStoreAttempts = 3

// CatalogOptions ajustes de la lectura cacheada del catálogo.
type CatalogOptions struct {
	TTL          time.Duration // 0 desactiva la caché
	StoreTimeout time.Duration // por intento
	CacheTimeout time.Duration

	// RetryInterval intervalo inicial del backoff; 0 usa el valor por defecto de la librería.
	RetryInterval time.Duration
}

// CatalogUseCase sirve el listado anidado del catálogo con caché read-through.
// La caché nunca es fuente de verdad: cualquier error se registra y se trata como miss.
type CatalogUseCase struct {
	sections repository.SectionRepository
	products repository.ProductRepository
	cache    ports.CatalogCache
	opts     CatalogOptions
	log      *logger.Logger

	// gen sube con cada invalidación; un lector solo guarda su payload si no cambió mientras cargaba.
	// mu serializa comprobar+Set frente a subir+Delete.
	mu  sync.Mutex
	gen uint64
}

var _ ports.CatalogInvalidator = (*CatalogUseCase)(nil)

// NewCatalogUseCase construye el caso de uso. cache puede ser nil.
func NewCatalogUseCase(
	sections repository.SectionRepository,
	products repository.ProductRepository,
	cache ports.CatalogCache,
	opts CatalogOptions,
	log *logger.Logger,
) *CatalogUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CatalogUseCase{sections: sections, products: products, cache: cache, opts: opts, log: log}
}

func (uc *CatalogUseCase) cacheEnabled() bool {
	return uc.cache != nil && uc.opts.TTL > 0
}

// ListSectionsWithProducts devuelve el JSON exacto que se envía al cliente.
// Dos lecturas dentro del TTL devuelven los mismos bytes sin consultar la base de datos.
func (uc *CatalogUseCase) ListSectionsWithProducts(ctx context.Context) ([]byte, error) {
	if uc.cacheEnabled() {
		if payload, ok := uc.cacheGet(ctx); ok {
			return payload, nil
		}
	}

	gen := uc.generation()
	listing, err := uc.loadWithRetry(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(listing)
	if err != nil {
		return nil, err
	}

	if uc.cacheEnabled() {
		uc.cacheSetIfCurrent(ctx, gen, payload)
	}
	return payload, nil
}

// InvalidateCatalog borra la entrada cacheada. Lo llaman las escrituras después de confirmar.
func (uc *CatalogUseCase) InvalidateCatalog(ctx context.Context) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.gen++
	if uc.cache == nil {
		return
	}
	cctx, cancel := uc.withTimeout(ctx, uc.opts.CacheTimeout)
	defer cancel()
	if err := uc.cache.Delete(cctx, CatalogCacheKey); err != nil {
		uc.log.Warn().Err(err).Str("key", CatalogCacheKey).Msg("no se pudo invalidar la caché del catálogo")
	}
}

func (uc *CatalogUseCase) cacheGet(ctx context.Context) ([]byte, bool) {
	cctx, cancel := uc.withTimeout(ctx, uc.opts.CacheTimeout)
	defer cancel()
	payload, ok, err := uc.cache.Get(cctx, CatalogCacheKey)
	if err != nil {
		uc.log.Warn().Err(err).Str("key", CatalogCacheKey).Msg("caché no disponible, se lee de la base de datos")
		return nil, false
	}
	return payload, ok
}

func (uc *CatalogUseCase) generation() uint64 {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.gen
}

// cacheSetIfCurrent descarta el payload si hubo una invalidación desde que empezó la carga.
func (uc *CatalogUseCase) cacheSetIfCurrent(ctx context.Context, gen uint64, payload []byte) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.gen != gen {
		uc.log.Debug().Str("key", CatalogCacheKey).Msg("catálogo modificado durante la lectura, no se cachea")
		return
	}
	uc.cacheSet(ctx, payload)
}

func (uc *CatalogUseCase) cacheSet(ctx context.Context, payload []byte) {
	cctx, cancel := uc.withTimeout(ctx, uc.opts.CacheTimeout)
	defer cancel()
	if err := uc.cache.Set(cctx, CatalogCacheKey, payload, uc.opts.TTL); err != nil {
		uc.log.Warn().Err(err).Str("key", CatalogCacheKey).Msg("no se pudo guardar el catálogo en caché")
	}
}

// loadWithRetry reintenta con backoff exponencial solo cuando un intento agota su timeout.
// Cualquier otro error, o la cancelación del llamador, se devuelve de inmediato.
func (uc *CatalogUseCase) loadWithRetry(ctx context.Context) ([]dto.SectionWithProductsResponse, error) {
	op := func() ([]dto.SectionWithProductsResponse, error) {
		actx, cancel := uc.withTimeout(ctx, uc.opts.StoreTimeout)
		defer cancel()
		listing, err := uc.load(actx)
		if err == nil {
			return listing, nil
		}
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}
	exp := backoff.NewExponentialBackOff()
	if uc.opts.RetryInterval > 0 {
		exp.InitialInterval = uc.opts.RetryInterval
	}
	b := backoff.WithContext(backoff.WithMaxRetries(exp, maxStoreAttempts-1), ctx)
	return backoff.RetryWithData(op, b)
}

func (uc *CatalogUseCase) load(ctx context.Context) ([]dto.SectionWithProductsResponse, error) {
	sections, err := uc.sections.List(ctx)
	if err != nil {
		return nil, err
	}
	products, err := uc.products.List(ctx)
	if err != nil {
		return nil, err
	}
	bySection := make(map[int64][]dto.ProductResponse, len(sections))
	for _, p := range products {
		bySection[p.SectionID] = append(bySection[p.SectionID], *toProductResponse(p))
	}
	out := make([]dto.SectionWithProductsResponse, 0, len(sections))
	for _, s := range sections {
		items := bySection[s.ID]
		if items == nil {
			items = []dto.ProductResponse{}
		}
		out = append(out, dto.SectionWithProductsResponse{ID: s.ID, Name: s.Name, Products: items})
	}
	return out, nil
}

func (uc *CatalogUseCase) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
