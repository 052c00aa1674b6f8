package ingestion

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/impactboard/impactboard/internal/domain"
	"github.com/impactboard/impactboard/internal/repository"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat is returned when an uploaded file is not supported.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	byteOrderMark = []byte{0xEF, 0xBB, 0xBF}
)

// Service runs bulk metric imports as background jobs. Each upload is
// processed by one sequential worker that owns its byte source and
// mutates only its own job record.
type Service struct {
	reportRepo repository.ReportRepository
	jobRepo    repository.ImportJobRepository
	rowPause   time.Duration
}

// Option customizes service behavior.
type Option func(*Service)

// WithRowPause inserts a pause between rows so polling clients can
// observe progress advancing. Zero disables the pause.
func WithRowPause(pause time.Duration) Option {
	return func(s *Service) {
		if pause > 0 {
			s.rowPause = pause
		}
	}
}

// NewService creates a new ingestion service.
func NewService(reportRepo repository.ReportRepository, jobRepo repository.ImportJobRepository, opts ...Option) *Service {
	service := &Service{
		reportRepo: reportRepo,
		jobRepo:    jobRepo,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Summary returns the terminal counters of one import run.
type Summary struct {
	TotalRows      int      `json:"totalRows"`
	SuccessfulRows int      `json:"successfulRows"`
	FailedRows     int      `json:"failedRows"`
	Errors         []string `json:"errorMessages"`
}

// Enqueue registers a pending job for the upload and starts processing
// it in the background. It returns as soon as the job record exists;
// the upload's outcome is observed by polling JobStatus.
func (s *Service) Enqueue(ctx context.Context, fileName string, data io.Reader) (domain.ImportJob, error) {
	if strings.TrimSpace(fileName) == "" {
		return domain.ImportJob{}, errors.New("file name is required")
	}
	if data == nil {
		return domain.ImportJob{}, errors.New("data reader is required")
	}

	payload, err := io.ReadAll(data)
	if err != nil {
		return domain.ImportJob{}, fmt.Errorf("failed to read upload: %w", err)
	}

	job, err := s.jobRepo.Create(ctx, domain.NewImportJob(fileName))
	if err != nil {
		return domain.ImportJob{}, fmt.Errorf("failed to create import job: %w", err)
	}

	s.launchWorker(job, payload)
	return job, nil
}

// JobStatus returns the persisted job record for polling clients.
func (s *Service) JobStatus(ctx context.Context, id uuid.UUID) (domain.ImportJob, error) {
	return s.jobRepo.GetByID(ctx, id)
}

func (s *Service) launchWorker(job domain.ImportJob, payload []byte) {
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[ingest] panic while processing job %s: %v", job.ID, rec)
				s.markFailed(context.Background(), job, fmt.Sprintf("internal error: %v", rec))
			}
		}()

		rc := io.NopCloser(bytes.NewReader(payload))
		if _, err := s.Run(context.Background(), job, rc); err != nil {
			log.Printf("[ingest] job %s failed: %v", job.ID, err)
		}
	}()
}

// Run processes the byte source for an already-registered pending job.
// The source is closed on every exit path. Structural failures (bad
// header, malformed file, no data rows) terminate the job as failed
// with total_rows = 0; row-level failures are counted and reported but
// never abort the loop, so the job still completes.
func (s *Service) Run(ctx context.Context, job domain.ImportJob, rc io.ReadCloser) (Summary, error) {
	defer func() { _ = rc.Close() }()

	summary := Summary{Errors: []string{}}

	headers, rows, err := parseUpload(job.FileName, rc)
	if err != nil {
		message := err.Error()
		s.markFailed(ctx, job, message)
		summary.Errors = append(summary.Errors, message)
		return summary, err
	}
	if len(rows) == 0 {
		message := "file contains no data rows"
		s.markFailed(ctx, job, message)
		summary.Errors = append(summary.Errors, message)
		return summary, errors.New(message)
	}

	progress := repository.JobProgress{
		Status:    domain.ImportJobStatusProcessing,
		TotalRows: len(rows),
		Errors:    []string{},
	}
	if err := s.jobRepo.UpdateProgress(ctx, job.ID, progress); err != nil {
		return summary, fmt.Errorf("failed to mark job processing: %w", err)
	}

	for i, row := range rows {
		rowNumber := i + 1

		report, rowErrs := ValidateRecord(rowFields(headers, row), rowNumber)
		if len(rowErrs) > 0 {
			progress.FailedRows++
			progress.Errors = append(progress.Errors, rowErrs...)
		} else if _, upsertErr := s.reportRepo.Upsert(ctx, report); upsertErr != nil {
			progress.FailedRows++
			progress.Errors = append(progress.Errors, fmt.Sprintf("row %d: failed to save report: %v", rowNumber, upsertErr))
		} else {
			progress.SuccessfulRows++
		}
		progress.ProcessedRows++

		if progress.ProcessedRows == progress.TotalRows {
			progress.Status = domain.ImportJobStatusCompleted
		}
		if err := s.jobRepo.UpdateProgress(ctx, job.ID, progress); err != nil {
			return summary, fmt.Errorf("failed to persist job progress: %w", err)
		}

		if s.rowPause > 0 && progress.ProcessedRows < progress.TotalRows {
			select {
			case <-ctx.Done():
				return summary, ctx.Err()
			case <-time.After(s.rowPause):
			}
		}
	}

	summary.TotalRows = progress.TotalRows
	summary.SuccessfulRows = progress.SuccessfulRows
	summary.FailedRows = progress.FailedRows
	summary.Errors = progress.Errors
	return summary, nil
}

// markFailed writes the terminal failed state for structural errors.
// The repository's terminal guard turns a second terminal write into a
// conflict, which is ignored here.
func (s *Service) markFailed(ctx context.Context, job domain.ImportJob, message string) {
	err := s.jobRepo.UpdateProgress(ctx, job.ID, repository.JobProgress{
		Status: domain.ImportJobStatusFailed,
		Errors: []string{message},
	})
	if err != nil && !errors.Is(err, repository.ErrImportJobStatusConflict) {
		log.Printf("[ingest] failed to mark job %s as failed: %v", job.ID, err)
	}
}

func parseUpload(fileName string, r io.Reader) ([]string, [][]string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".csv":
		return parseCSV(r)
	case ".xlsx":
		return parseExcel(r)
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// parseCSV streams records from the reader. The header is validated as
// soon as the first record arrives; on header failure the rest of the
// stream is never read.
func parseCSV(r io.Reader) ([]string, [][]string, error) {
	buffered := bufio.NewReader(r)
	if prefix, err := buffered.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = buffered.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(buffered)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	var headers []string
	var rows [][]string

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read csv: %v", err)
		}
		if isBlankRow(record) {
			continue
		}

		if headers == nil {
			headers = normalizeHeaders(record)
			if err := ValidateHeaders(headers); err != nil {
				return nil, nil, err
			}
			continue
		}

		rows = append(rows, padRow(record, len(headers)))
	}

	if headers == nil {
		return nil, nil, errors.New("file is empty")
	}
	return headers, rows, nil
}

func parseExcel(r io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open xlsx: %v", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, errors.New("excel file has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows from xlsx: %v", err)
	}

	var headers []string
	var rows [][]string
	for _, record := range records {
		if isBlankRow(record) {
			continue
		}
		if headers == nil {
			headers = normalizeHeaders(record)
			if err := ValidateHeaders(headers); err != nil {
				return nil, nil, err
			}
			continue
		}
		rows = append(rows, padRow(record, len(headers)))
	}

	if headers == nil {
		return nil, nil, errors.New("file is empty")
	}
	return headers, rows, nil
}

func normalizeHeaders(record []string) []string {
	headers := make([]string, len(record))
	for i, name := range record {
		headers[i] = normalizeHeader(name)
	}
	return headers
}

func isBlankRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func padRow(row []string, length int) []string {
	if len(row) >= length {
		return row[:length]
	}
	padded := make([]string, length)
	copy(padded, row)
	return padded
}

func rowFields(headers []string, row []string) map[string]string {
	fields := make(map[string]string, len(headers))
	for i, header := range headers {
		if i < len(row) {
			fields[header] = row[i]
		}
	}
	return fields
}
