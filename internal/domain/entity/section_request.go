package entity

import (
	"strings"
	"time"

	"github.com/jhoicas/grocery-api/internal/domain"
)

// Tipos de solicitud de cambio de sección.
const (
	RequestTypeCreate = "create"
	RequestTypeEdit   = "edit"
	RequestTypeDelete = "delete"
)

// Estados de una SectionRequest. approved y rejected son terminales.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// SectionRequest es una propuesta de un gerente para crear, editar o eliminar una sección.
// Solo modifica el catálogo cuando un administrador la aprueba.
type SectionRequest struct {
	ID              int64
	RequestType     string
	SectionID       *int64 // requerido para edit/delete
	SectionName     string // requerido para create/edit
	Status          string
	RequestedBy     int64
	ResolvedBy      *int64
	ResolvedAt      *time.Time
	RejectionReason string
	CreatedAt       time.Time
}

// Validate verifica que la solicitud traiga los campos que exige su tipo.
func (r *SectionRequest) Validate() error {
	r.SectionName = strings.TrimSpace(r.SectionName)
	switch r.RequestType {
	case RequestTypeCreate:
		if r.SectionName == "" {
			return domain.ErrInvalidInput
		}
	case RequestTypeEdit:
		if r.SectionID == nil || r.SectionName == "" {
			return domain.ErrInvalidInput
		}
	case RequestTypeDelete:
		if r.SectionID == nil {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidRequestType
	}
	return nil
}

// IsPending informa si la solicitud aún admite una transición.
func (r *SectionRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}

// Resolve pasa la solicitud a un estado terminal. Falla si ya estaba resuelta.
func (r *SectionRequest) Resolve(status string, adminID int64, at time.Time, reason string) error {
	if !r.IsPending() {
		return domain.ErrAlreadyResolved
	}
	if status != RequestStatusApproved && status != RequestStatusRejected {
		return domain.ErrInvalidInput
	}
	r.Status = status
	r.ResolvedBy = &adminID
	r.ResolvedAt = &at
	r.RejectionReason = reason
	return nil
}
