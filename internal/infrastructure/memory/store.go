// Package memory implementa los puertos de persistencia en memoria. Se usa en desarrollo local
// (DB_DRIVER=memory) y como doble de prueba de los casos de uso. Las transacciones se serializan
// con un único mutex y trabajan sobre una copia del estado que solo se publica si fn no falla.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/grocery-api/internal/domain/entity"
	"github.com/jhoicas/grocery-api/internal/domain/repository"
)

type state struct {
	users      map[int64]*entity.User
	sections   map[int64]*entity.Section
	products   map[int64]*entity.Product
	requests   map[int64]*entity.SectionRequest
	orders     map[int64]*entity.Order
	exportJobs map[string]*entity.ExportJob

	nextUserID    int64
	nextSectionID int64
	nextProductID int64
	nextRequestID int64
	nextOrderID   int64
	nextItemID    int64
}

func newState() *state {
	return &state{
		users:      make(map[int64]*entity.User),
		sections:   make(map[int64]*entity.Section),
		products:   make(map[int64]*entity.Product),
		requests:   make(map[int64]*entity.SectionRequest),
		orders:     make(map[int64]*entity.Order),
		exportJobs: make(map[string]*entity.ExportJob),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = copyUser(v)
	}
	for k, v := range s.sections {
		cp := *v
		c.sections[k] = &cp
	}
	for k, v := range s.products {
		cp := *v
		c.products[k] = &cp
	}
	for k, v := range s.requests {
		c.requests[k] = copyRequest(v)
	}
	for k, v := range s.orders {
		c.orders[k] = copyOrder(v)
	}
	for k, v := range s.exportJobs {
		c.exportJobs[k] = copyJob(v)
	}
	c.nextUserID = s.nextUserID
	c.nextSectionID = s.nextSectionID
	c.nextProductID = s.nextProductID
	c.nextRequestID = s.nextRequestID
	c.nextOrderID = s.nextOrderID
	c.nextItemID = s.nextItemID
	return c
}

// Store contenedor del estado compartido.
type Store struct {
	mu   sync.Mutex
	data *state
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{data: newState()}
}

// base decide si una operación corre dentro de una transacción (tx != nil, el lock ya está tomado)
// o de forma autónoma (toma el lock solo durante la operación).
type base struct {
	s  *Store
	tx *state
}

func (b base) do(fn func(st *state) error) error {
	if b.tx != nil {
		return fn(b.tx)
	}
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	return fn(b.s.data)
}

// Users devuelve el repositorio de usuarios fuera de transacción.
func (s *Store) Users() *UserRepo { return &UserRepo{base{s: s}} }

// Sections devuelve el repositorio de secciones fuera de transacción.
func (s *Store) Sections() *SectionRepo { return &SectionRepo{base{s: s}} }

// Products devuelve el repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{base{s: s}} }

// SectionRequests devuelve el repositorio de solicitudes fuera de transacción.
func (s *Store) SectionRequests() *SectionRequestRepo { return &SectionRequestRepo{base{s: s}} }

// Orders devuelve el repositorio de órdenes fuera de transacción.
func (s *Store) Orders() *OrderRepo { return &OrderRepo{base{s: s}} }

// ExportJobs devuelve el repositorio de exportaciones.
func (s *Store) ExportJobs() *ExportJobRepo { return &ExportJobRepo{base{s: s}} }

// run ejecuta fn sobre una copia del estado y la publica solo si fn no devuelve error.
func (s *Store) run(ctx context.Context, fn func(tx *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.data.clone()
	if err := fn(work); err != nil {
		return err
	}
	s.data = work
	return nil
}

// RunWorkflow ejecuta fn con repos de solicitudes, secciones y productos atados a una transacción.
func (s *Store) RunWorkflow(ctx context.Context, fn func(
	reqRepo repository.SectionRequestRepository,
	sectionRepo repository.SectionRepository,
	productRepo repository.ProductRepository,
) error) error {
	return s.run(ctx, func(tx *state) error {
		b := base{s: s, tx: tx}
		return fn(&SectionRequestRepo{b}, &SectionRepo{b}, &ProductRepo{b})
	})
}

// RunCheckout ejecuta fn con repos de usuarios, productos y órdenes atados a una transacción.
func (s *Store) RunCheckout(ctx context.Context, fn func(
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
) error) error {
	return s.run(ctx, func(tx *state) error {
		b := base{s: s, tx: tx}
		return fn(&UserRepo{b}, &ProductRepo{b}, &OrderRepo{b})
	})
}

func copyUser(u *entity.User) *entity.User {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}

func copyRequest(r *entity.SectionRequest) *entity.SectionRequest {
	if r == nil {
		return nil
	}
	cp := *r
	if r.SectionID != nil {
		id := *r.SectionID
		cp.SectionID = &id
	}
	if r.ResolvedBy != nil {
		id := *r.ResolvedBy
		cp.ResolvedBy = &id
	}
	if r.ResolvedAt != nil {
		at := *r.ResolvedAt
		cp.ResolvedAt = &at
	}
	return &cp
}

func copyOrder(o *entity.Order) *entity.Order {
	if o == nil {
		return nil
	}
	cp := *o
	cp.Items = append([]entity.OrderItem(nil), o.Items...)
	return &cp
}

func copyJob(j *entity.ExportJob) *entity.ExportJob {
	if j == nil {
		return nil
	}
	cp := *j
	if j.FinishedAt != nil {
		at := *j.FinishedAt
		cp.FinishedAt = &at
	}
	return &cp
}
