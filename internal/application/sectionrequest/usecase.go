package sectionrequest

import (
	"context"
	"time"

	"github.com/jhoicas/grocery-api/internal/application/dto"
	"github.com/jhoicas/grocery-api/internal/application/ports"
	"github.com/jhoicas/grocery-api/internal/domain"
	"github.com/jhoicas/grocery-api/internal/domain/entity"
	"github.com/jhoicas/grocery-api/internal/domain/repository"
)

// UseCase flujo de moderación de secciones: pending → approved | rejected.
// El catálogo solo cambia al aprobar, nunca al enviar.
type UseCase struct {
	requests    repository.SectionRequestRepository
	tx          TxRunner
	invalidator ports.CatalogInvalidator
	now         func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(requests repository.SectionRequestRepository, tx TxRunner, invalidator ports.CatalogInvalidator) *UseCase {
	return &UseCase{requests: requests, tx: tx, invalidator: invalidator, now: time.Now}
}

// Submit registra la propuesta de un gerente. La existencia de la sección se verifica al aprobar.
func (uc *UseCase) Submit(ctx context.Context, managerID int64, in dto.SubmitSectionRequest) (*dto.SectionRequestSubmittedResponse, error) {
	req := &entity.SectionRequest{
		RequestType: in.RequestType,
		SectionID:   in.SectionID,
		SectionName: in.SectionName,
		Status:      entity.RequestStatusPending,
		RequestedBy: managerID,
		CreatedAt:   uc.now().UTC(),
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := uc.requests.Create(ctx, req); err != nil {
		return nil, err
	}
	return &dto.SectionRequestSubmittedResponse{
		Message:   "Section request submitted successfully",
		RequestID: req.ID,
	}, nil
}

// ListPending devuelve las solicitudes pendientes en orden de envío.
func (uc *UseCase) ListPending(ctx context.Context) ([]dto.SectionRequestResponse, error) {
	list, err := uc.requests.ListByStatus(ctx, entity.RequestStatusPending)
	if err != nil {
		return nil, err
	}
	return toResponses(list), nil
}

// ListMine devuelve todas las solicitudes enviadas por el gerente, en cualquier estado.
func (uc *UseCase) ListMine(ctx context.Context, managerID int64) ([]dto.SectionRequestResponse, error) {
	list, err := uc.requests.ListByRequester(ctx, managerID)
	if err != nil {
		return nil, err
	}
	return toResponses(list), nil
}

// Approve aplica el efecto de la solicitud y la marca approved en una sola transacción.
// La fila queda bloqueada mientras dura, así que dos aprobaciones concurrentes se serializan
// y la segunda recibe domain.ErrAlreadyResolved sin repetir el efecto.
func (uc *UseCase) Approve(ctx context.Context, adminID, requestID int64) error {
	err := uc.tx.RunWorkflow(ctx, func(
		reqRepo repository.SectionRequestRepository,
		sectionRepo repository.SectionRepository,
		productRepo repository.ProductRepository,
	) error {
		req, err := lockPending(ctx, reqRepo, requestID)
		if err != nil {
			return err
		}
		if err := applySideEffect(ctx, req, sectionRepo, productRepo); err != nil {
			return err
		}
		if err := req.Resolve(entity.RequestStatusApproved, adminID, uc.now().UTC(), ""); err != nil {
			return err
		}
		return reqRepo.SaveResolution(ctx, req)
	})
	if err != nil {
		return err
	}
	uc.invalidator.InvalidateCatalog(ctx)
	return nil
}

// Reject marca la solicitud como rejected sin tocar el catálogo. reason es opcional.
func (uc *UseCase) Reject(ctx context.Context, adminID, requestID int64, reason string) error {
	return uc.tx.RunWorkflow(ctx, func(
		reqRepo repository.SectionRequestRepository,
		_ repository.SectionRepository,
		_ repository.ProductRepository,
	) error {
		req, err := lockPending(ctx, reqRepo, requestID)
		if err != nil {
			return err
		}
		if err := req.Resolve(entity.RequestStatusRejected, adminID, uc.now().UTC(), reason); err != nil {
			return err
		}
		return reqRepo.SaveResolution(ctx, req)
	})
}

func lockPending(ctx context.Context, repo repository.SectionRequestRepository, id int64) (*entity.SectionRequest, error) {
	req, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	if !req.IsPending() {
		return nil, domain.ErrAlreadyResolved
	}
	return req, nil
}

func applySideEffect(
	ctx context.Context,
	req *entity.SectionRequest,
	sectionRepo repository.SectionRepository,
	productRepo repository.ProductRepository,
) error {
	switch req.RequestType {
	case entity.RequestTypeCreate:
		section := &entity.Section{Name: req.SectionName}
		if err := sectionRepo.Create(ctx, section); err != nil {
			return err
		}
		req.SectionID = &section.ID
		return nil

	case entity.RequestTypeEdit:
		section, err := existingSection(ctx, sectionRepo, req.SectionID)
		if err != nil {
			return err
		}
		section.Name = req.SectionName
		return sectionRepo.Update(ctx, section)

	case entity.RequestTypeDelete:
		section, err := existingSection(ctx, sectionRepo, req.SectionID)
		if err != nil {
			return err
		}
		n, err := productRepo.CountBySection(ctx, section.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrSectionNotEmpty
		}
		return sectionRepo.Delete(ctx, section.ID)
	}
	return domain.ErrInvalidRequestType
}

func existingSection(ctx context.Context, repo repository.SectionRepository, id *int64) (*entity.Section, error) {
	if id == nil {
		return nil, domain.ErrInvalidInput
	}
	section, err := repo.GetByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	if section == nil {
		return nil, domain.ErrNotFound
	}
	return section, nil
}

func toResponses(list []*entity.SectionRequest) []dto.SectionRequestResponse {
	out := make([]dto.SectionRequestResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.SectionRequestResponse{
			ID:              r.ID,
			RequestType:     r.RequestType,
			SectionID:       r.SectionID,
			SectionName:     r.SectionName,
			Status:          r.Status,
			RequestedBy:     r.RequestedBy,
			ResolvedBy:      r.ResolvedBy,
			ResolvedAt:      r.ResolvedAt,
			RejectionReason: r.RejectionReason,
			CreatedAt:       r.CreatedAt,
		})
	}
	return out
}
