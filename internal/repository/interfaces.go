package repository

import (
	"context"

	"github.com/impactboard/impactboard/internal/domain"

	"github.com/google/uuid"
)

// ReportRepository defines the interface for metric report storage.
type ReportRepository interface {
	// Upsert inserts the report or replaces the stored values for its
	// (ngo_id, month) key. Last write wins.
	Upsert(ctx context.Context, report domain.Report) (domain.Report, error)
	// Aggregate summarizes the reports matching the filter.
	Aggregate(ctx context.Context, filter domain.ReportFilter) (domain.ReportAggregate, error)
	// List returns a page of matching reports ordered by month
	// descending then ngo_id ascending, plus the total match count.
	List(ctx context.Context, filter domain.ReportFilter, limit int, offset int) ([]domain.Report, int, error)
}

// JobProgress is the full progress snapshot persisted after each row.
type JobProgress struct {
	Status         domain.ImportJobStatus
	TotalRows      int
	ProcessedRows  int
	SuccessfulRows int
	FailedRows     int
	Errors         []string
}

// ImportJobRepository defines the interface for import job tracking.
type ImportJobRepository interface {
	Create(ctx context.Context, job domain.ImportJob) (domain.ImportJob, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.ImportJob, error)
	// UpdateProgress overwrites the job's progress fields. Jobs already
	// in a terminal state are never updated; attempting to do so
	// returns ErrImportJobStatusConflict.
	UpdateProgress(ctx context.Context, id uuid.UUID, progress JobProgress) error
}
