package domain

import (
	"time"

	"github.com/google/uuid"
)

// ImportJobStatus captures lifecycle state for a bulk import job.
type ImportJobStatus string

const (
	ImportJobStatusPending    ImportJobStatus = "pending"
	ImportJobStatusProcessing ImportJobStatus = "processing"
	ImportJobStatusCompleted  ImportJobStatus = "completed"
	ImportJobStatusFailed     ImportJobStatus = "failed"
)

// ImportJob tracks one bulk upload from enqueue to a terminal state.
// Progress fields are mutated only by the ingestion pipeline; pollers
// read the persisted record.
type ImportJob struct {
	ID             uuid.UUID       `json:"id"`
	FileName       string          `json:"file_name"`
	Status         ImportJobStatus `json:"status"`
	TotalRows      int             `json:"total_rows"`
	ProcessedRows  int             `json:"processed_rows"`
	SuccessfulRows int             `json:"successful_rows"`
	FailedRows     int             `json:"failed_rows"`
	Errors         []string        `json:"error_messages"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewImportJob creates a pending job for an accepted upload.
func NewImportJob(fileName string) ImportJob {
	now := time.Now()
	return ImportJob{
		ID:        uuid.New(),
		FileName:  fileName,
		Status:    ImportJobStatusPending,
		Errors:    []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsTerminal reports whether the job can no longer change state.
func (j ImportJob) IsTerminal() bool {
	return j.Status == ImportJobStatusCompleted || j.Status == ImportJobStatusFailed
}
