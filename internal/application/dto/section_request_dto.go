package dto

import "time"

// SubmitSectionRequest entrada de un gerente para proponer un cambio de sección.
type SubmitSectionRequest struct {
	RequestType string `json:"request_type" validate:"required,oneof=create edit delete"`
	SectionID   *int64 `json:"section_id"`
	SectionName string `json:"section_name"`
}

// RejectSectionRequest cuerpo opcional del rechazo.
type RejectSectionRequest struct {
	Reason string `json:"reason"`
}

// SectionRequestSubmittedResponse salida del envío.
type SectionRequestSubmittedResponse struct {
	Message   string `json:"message"`
	RequestID int64  `json:"request_id"`
}

// SectionRequestResponse salida de una solicitud.
type SectionRequestResponse struct {
	ID              int64      `json:"id"`
	RequestType     string     `json:"request_type"`
	SectionID       *int64     `json:"section_id"`
	SectionName     string     `json:"section_name"`
	Status          string     `json:"status"`
	RequestedBy     int64      `json:"requested_by"`
	ResolvedBy      *int64     `json:"resolved_by,omitempty"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}
