package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/grocery-api/internal/domain"
	"github.com/jhoicas/grocery-api/internal/domain/entity"
	"github.com/jhoicas/grocery-api/internal/domain/repository"
)

var (
	_ repository.UserRepository           = (*UserRepo)(nil)
	_ repository.SectionRepository        = (*SectionRepo)(nil)
	_ repository.ProductRepository        = (*ProductRepo)(nil)
	_ repository.SectionRequestRepository = (*SectionRequestRepo)(nil)
	_ repository.OrderRepository          = (*OrderRepo)(nil)
	_ repository.ExportJobRepository      = (*ExportJobRepo)(nil)
)

// ── Users ────────────────────────────────────────────────────────────────────

// UserRepo implementación en memoria de UserRepository.
type UserRepo struct{ base }

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	return r.do(func(st *state) error {
		for _, u := range st.users {
			if u.Username == user.Username {
				return domain.ErrUsernameTaken
			}
		}
		st.nextUserID++
		user.ID = st.nextUserID
		st.users[user.ID] = copyUser(user)
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	var out *entity.User
	err := r.do(func(st *state) error {
		out = copyUser(st.users[id])
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	var out *entity.User
	err := r.do(func(st *state) error {
		for _, u := range st.users {
			if u.Username == username {
				out = copyUser(u)
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) Update(_ context.Context, user *entity.User) error {
	return r.do(func(st *state) error {
		if _, ok := st.users[user.ID]; !ok {
			return domain.ErrUserNotFound
		}
		st.users[user.ID] = copyUser(user)
		return nil
	})
}

func (r *UserRepo) UpdateStatus(_ context.Context, id int64, status string) error {
	return r.do(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return domain.ErrUserNotFound
		}
		u.Status = status
		return nil
	})
}

func (r *UserRepo) TouchLastActivity(_ context.Context, id int64, at time.Time) error {
	return r.do(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return domain.ErrUserNotFound
		}
		u.LastActivity = at
		return nil
	})
}

func (r *UserRepo) ListByRole(_ context.Context, role, status string) ([]*entity.User, error) {
	var out []*entity.User
	err := r.do(func(st *state) error {
		for _, u := range st.users {
			if u.Role == role && (status == "" || u.Status == status) {
				out = append(out, copyUser(u))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *UserRepo) ListInactive(_ context.Context, role string, before time.Time) ([]*entity.User, error) {
	var out []*entity.User
	err := r.do(func(st *state) error {
		for _, u := range st.users {
			if u.Role == role && u.Status == entity.StatusApproved && u.LastActivity.Before(before) {
				out = append(out, copyUser(u))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

// ── Sections ─────────────────────────────────────────────────────────────────

// SectionRepo implementación en memoria de SectionRepository.
type SectionRepo struct{ base }

func (r *SectionRepo) Create(_ context.Context, section *entity.Section) error {
	return r.do(func(st *state) error {
		st.nextSectionID++
		section.ID = st.nextSectionID
		cp := *section
		st.sections[section.ID] = &cp
		return nil
	})
}

func (r *SectionRepo) GetByID(_ context.Context, id int64) (*entity.Section, error) {
	var out *entity.Section
	err := r.do(func(st *state) error {
		if s, ok := st.sections[id]; ok {
			cp := *s
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *SectionRepo) Update(_ context.Context, section *entity.Section) error {
	return r.do(func(st *state) error {
		if _, ok := st.sections[section.ID]; !ok {
			return domain.ErrNotFound
		}
		cp := *section
		st.sections[section.ID] = &cp
		return nil
	})
}

func (r *SectionRepo) Delete(_ context.Context, id int64) error {
	return r.do(func(st *state) error {
		for _, p := range st.products {
			if p.SectionID == id {
				return domain.ErrSectionNotEmpty
			}
		}
		delete(st.sections, id)
		return nil
	})
}

func (r *SectionRepo) List(_ context.Context) ([]*entity.Section, error) {
	var out []*entity.Section
	err := r.do(func(st *state) error {
		for _, s := range st.sections {
			cp := *s
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

// ── Products ─────────────────────────────────────────────────────────────────

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct{ base }

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.do(func(st *state) error {
		if _, ok := st.sections[product.SectionID]; !ok {
			return domain.ErrNotFound
		}
		st.nextProductID++
		product.ID = st.nextProductID
		cp := *product
		st.products[product.ID] = &cp
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	var out *entity.Product
	err := r.do(func(st *state) error {
		if p, ok := st.products[id]; ok {
			cp := *p
			out = &cp
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: dentro de una transacción el lock global ya serializa.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) Update(_ context.Context, id int64, patch repository.ProductPatch) (*entity.Product, error) {
	var out *entity.Product
	err := r.do(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return nil
		}
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.UnitType != nil {
			p.UnitType = *patch.UnitType
		}
		if patch.RatePerUnit != nil {
			p.RatePerUnit = *patch.RatePerUnit
		}
		if patch.QuantityAvailable != nil {
			p.QuantityAvailable = *patch.QuantityAvailable
		}
		cp := *p
		out = &cp
		return nil
	})
	return out, err
}

// Delete replica la FK order_items.product_id: un producto ya vendido no se borra.
func (r *ProductRepo) Delete(_ context.Context, id int64) error {
	return r.do(func(st *state) error {
		for _, o := range st.orders {
			for _, it := range o.Items {
				if it.ProductID == id {
					return domain.ErrConflict
				}
			}
		}
		delete(st.products, id)
		return nil
	})
}

func (r *ProductRepo) DecrementStock(_ context.Context, id int64, quantity int) error {
	return r.do(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		p.QuantityAvailable -= quantity
		return nil
	})
}

func (r *ProductRepo) CountBySection(_ context.Context, sectionID int64) (int, error) {
	n := 0
	err := r.do(func(st *state) error {
		for _, p := range st.products {
			if p.SectionID == sectionID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *ProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.do(func(st *state) error {
		for _, p := range st.products {
			cp := *p
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

// ── Section requests ─────────────────────────────────────────────────────────

// SectionRequestRepo implementación en memoria de SectionRequestRepository.
type SectionRequestRepo struct{ base }

func (r *SectionRequestRepo) Create(_ context.Context, req *entity.SectionRequest) error {
	return r.do(func(st *state) error {
		st.nextRequestID++
		req.ID = st.nextRequestID
		st.requests[req.ID] = copyRequest(req)
		return nil
	})
}

func (r *SectionRequestRepo) GetByID(_ context.Context, id int64) (*entity.SectionRequest, error) {
	var out *entity.SectionRequest
	err := r.do(func(st *state) error {
		out = copyRequest(st.requests[id])
		return nil
	})
	return out, err
}

func (r *SectionRequestRepo) GetForUpdate(ctx context.Context, id int64) (*entity.SectionRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *SectionRequestRepo) SaveResolution(_ context.Context, req *entity.SectionRequest) error {
	return r.do(func(st *state) error {
		cur, ok := st.requests[req.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if cur.Status != entity.RequestStatusPending {
			return domain.ErrAlreadyResolved
		}
		st.requests[req.ID] = copyRequest(req)
		return nil
	})
}

func (r *SectionRequestRepo) ListByStatus(_ context.Context, status string) ([]*entity.SectionRequest, error) {
	return r.filter(func(req *entity.SectionRequest) bool { return req.Status == status })
}

func (r *SectionRequestRepo) ListByRequester(_ context.Context, userID int64) ([]*entity.SectionRequest, error) {
	return r.filter(func(req *entity.SectionRequest) bool { return req.RequestedBy == userID })
}

func (r *SectionRequestRepo) filter(keep func(*entity.SectionRequest) bool) ([]*entity.SectionRequest, error) {
	var out []*entity.SectionRequest
	err := r.do(func(st *state) error {
		for _, req := range st.requests {
			if keep(req) {
				out = append(out, copyRequest(req))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

// ── Orders ───────────────────────────────────────────────────────────────────

// OrderRepo implementación en memoria de OrderRepository.
type OrderRepo struct{ base }

func (r *OrderRepo) Create(_ context.Context, order *entity.Order) error {
	return r.do(func(st *state) error {
		if _, ok := st.users[order.UserID]; !ok {
			return domain.ErrUserNotFound
		}
		st.nextOrderID++
		order.ID = st.nextOrderID
		if order.Timestamp.IsZero() {
			order.Timestamp = time.Now().UTC()
		}
		st.orders[order.ID] = copyOrder(order)
		return nil
	})
}

func (r *OrderRepo) AddItem(_ context.Context, item *entity.OrderItem) error {
	return r.do(func(st *state) error {
		o, ok := st.orders[item.OrderID]
		if !ok {
			return domain.ErrNotFound
		}
		if _, ok := st.products[item.ProductID]; !ok {
			return domain.ErrNotFound
		}
		st.nextItemID++
		item.ID = st.nextItemID
		o.Items = append(o.Items, *item)
		return nil
	})
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID int64) ([]*entity.Order, error) {
	return r.ListByUserBetween(ctx, userID, time.Time{}, time.Time{})
}

// ListByUserBetween con from/to en cero no filtra por fecha.
func (r *OrderRepo) ListByUserBetween(_ context.Context, userID int64, from, to time.Time) ([]*entity.Order, error) {
	var out []*entity.Order
	err := r.do(func(st *state) error {
		for _, o := range st.orders {
			if o.UserID != userID {
				continue
			}
			if !from.IsZero() && o.Timestamp.Before(from) {
				continue
			}
			if !to.IsZero() && !o.Timestamp.Before(to) {
				continue
			}
			out = append(out, copyOrder(o))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

// ── Export jobs ──────────────────────────────────────────────────────────────

// ExportJobRepo implementación en memoria de ExportJobRepository.
type ExportJobRepo struct{ base }

func (r *ExportJobRepo) Create(_ context.Context, job *entity.ExportJob) error {
	return r.do(func(st *state) error {
		st.exportJobs[job.ID] = copyJob(job)
		return nil
	})
}

func (r *ExportJobRepo) GetByID(_ context.Context, id string) (*entity.ExportJob, error) {
	var out *entity.ExportJob
	err := r.do(func(st *state) error {
		out = copyJob(st.exportJobs[id])
		return nil
	})
	return out, err
}

func (r *ExportJobRepo) MarkRunning(_ context.Context, id string) error {
	return r.update(id, func(j *entity.ExportJob) { j.Status = entity.ExportStatusRunning })
}

func (r *ExportJobRepo) MarkDone(_ context.Context, id, filePath string, at time.Time) error {
	return r.update(id, func(j *entity.ExportJob) {
		j.Status = entity.ExportStatusDone
		j.FilePath = filePath
		j.FinishedAt = &at
	})
}

func (r *ExportJobRepo) MarkFailed(_ context.Context, id, reason string, at time.Time) error {
	return r.update(id, func(j *entity.ExportJob) {
		j.Status = entity.ExportStatusFailed
		j.Error = reason
		j.FinishedAt = &at
	})
}

func (r *ExportJobRepo) LatestDone(_ context.Context) (*entity.ExportJob, error) {
	var out *entity.ExportJob
	err := r.do(func(st *state) error {
		for _, j := range st.exportJobs {
			if j.Status != entity.ExportStatusDone || j.FinishedAt == nil {
				continue
			}
			if out == nil || j.FinishedAt.After(*out.FinishedAt) {
				out = copyJob(j)
			}
		}
		return nil
	})
	return out, err
}

func (r *ExportJobRepo) update(id string, fn func(*entity.ExportJob)) error {
	return r.do(func(st *state) error {
		j, ok := st.exportJobs[id]
		if !ok {
			return domain.ErrNotFound
		}
		fn(j)
		return nil
	})
}
