package entity

import "time"

// Estados de un trabajo de exportación.
const (
	ExportStatusPending = "pending"
	ExportStatusRunning = "running"
	ExportStatusDone    = "done"
	ExportStatusFailed  = "failed"
)

// ExportJob registra una exportación CSV del catálogo. Cada trabajo escribe su propio archivo.
type ExportJob struct {
	ID          string // uuid
	Status      string
	FilePath    string
	Error       string
	RequestedBy int64
	CreatedAt   time.Time
	FinishedAt  *time.Time
}
