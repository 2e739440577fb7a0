package dto

import "time"

// ExportStartedResponse salida de /export-csv.
type ExportStartedResponse struct {
	Message string `json:"message"`
	JobID   string `json:"job_id"`
}

// ExportJobResponse estado de un trabajo de exportación.
type ExportJobResponse struct {
	JobID      string     `json:"job_id"`
	Status     string     `json:"status"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}
