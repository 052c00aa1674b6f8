package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/impactboard/impactboard/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrImportJobNotFound indicates an unknown job identifier.
var ErrImportJobNotFound = errors.New("import job not found")

// ErrImportJobStatusConflict indicates an update against a job that
// already reached a terminal state.
var ErrImportJobStatusConflict = errors.New("import job status conflict")

type importJobRepository struct {
	pool *pgxpool.Pool
}

// NewImportJobRepository wires a repository backed by pgxpool.
func NewImportJobRepository(pool *pgxpool.Pool) ImportJobRepository {
	return &importJobRepository{pool: pool}
}

func (r *importJobRepository) Create(ctx context.Context, job domain.ImportJob) (domain.ImportJob, error) {
	if r.pool == nil {
		return domain.ImportJob{}, fmt.Errorf("import job repository not initialized")
	}

	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.Status == "" {
		job.Status = domain.ImportJobStatusPending
	}
	errorMessages := job.Errors
	if errorMessages == nil {
		errorMessages = []string{}
	}

	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO import_jobs (id, file_name, status, total_rows, processed_rows, successful_rows, failed_rows, error_messages)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, file_name, status, total_rows, processed_rows, successful_rows, failed_rows, error_messages, created_at, updated_at`,
		job.ID,
		job.FileName,
		string(job.Status),
		job.TotalRows,
		job.ProcessedRows,
		job.SuccessfulRows,
		job.FailedRows,
		errorMessages,
	)

	stored, err := scanImportJob(row)
	if err != nil {
		return domain.ImportJob{}, fmt.Errorf("failed to create import job: %w", err)
	}
	return stored, nil
}

func (r *importJobRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.ImportJob, error) {
	if r.pool == nil {
		return domain.ImportJob{}, fmt.Errorf("import job repository not initialized")
	}

	row := r.pool.QueryRow(
		ctx,
		`SELECT id, file_name, status, total_rows, processed_rows, successful_rows, failed_rows, error_messages, created_at, updated_at
		 FROM import_jobs
		 WHERE id = $1`,
		id,
	)

	job, err := scanImportJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ImportJob{}, ErrImportJobNotFound
		}
		return domain.ImportJob{}, fmt.Errorf("failed to get import job: %w", err)
	}
	return job, nil
}

func (r *importJobRepository) UpdateProgress(ctx context.Context, id uuid.UUID, progress JobProgress) error {
	if r.pool == nil {
		return fmt.Errorf("import job repository not initialized")
	}

	errorMessages := progress.Errors
	if errorMessages == nil {
		errorMessages = []string{}
	}

	tag, err := r.pool.Exec(
		ctx,
		`UPDATE import_jobs
		 SET status = $2,
		     total_rows = $3,
		     processed_rows = $4,
		     successful_rows = $5,
		     failed_rows = $6,
		     error_messages = $7,
		     updated_at = now()
		 WHERE id = $1
		   AND status NOT IN ('completed', 'failed')`,
		id,
		string(progress.Status),
		progress.TotalRows,
		progress.ProcessedRows,
		progress.SuccessfulRows,
		progress.FailedRows,
		errorMessages,
	)
	if err != nil {
		return fmt.Errorf("failed to update import job progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrImportJobStatusConflict
	}
	return nil
}

func scanImportJob(row pgx.Row) (domain.ImportJob, error) {
	var (
		job    domain.ImportJob
		status string
	)
	if err := row.Scan(
		&job.ID,
		&job.FileName,
		&status,
		&job.TotalRows,
		&job.ProcessedRows,
		&job.SuccessfulRows,
		&job.FailedRows,
		&job.Errors,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		return domain.ImportJob{}, err
	}
	job.Status = domain.ImportJobStatus(status)
	if job.Errors == nil {
		job.Errors = []string{}
	}
	return job, nil
}
