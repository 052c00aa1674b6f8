package reports

import (
	"context"
	"fmt"

	"github.com/impactboard/impactboard/internal/domain"
	"github.com/impactboard/impactboard/internal/ingestion"
	"github.com/impactboard/impactboard/internal/repository"
)

// Service handles single-report submissions. Submissions pass through
// the same record validator as bulk rows, so the two paths accept and
// reject identical input.
type Service struct {
	reportRepo repository.ReportRepository
}

// NewService creates a new report submission service.
func NewService(reportRepo repository.ReportRepository) *Service {
	return &Service{reportRepo: reportRepo}
}

// Submission carries the five logical report fields as raw strings.
type Submission struct {
	NGOID           string
	Month           string
	PeopleHelped    string
	EventsConducted string
	FundsUtilized   string
}

// Submit validates the submission and upserts the report. Validation
// failures are returned as a message list, not an error; the error
// return is reserved for persistence faults.
func (s *Service) Submit(ctx context.Context, submission Submission) (domain.Report, []string, error) {
	fields := map[string]string{
		"ngo_id":           submission.NGOID,
		"month":            submission.Month,
		"people_helped":    submission.PeopleHelped,
		"events_conducted": submission.EventsConducted,
		"funds_utilized":   submission.FundsUtilized,
	}

	report, validationErrs := ingestion.ValidateRecord(fields, 0)
	if len(validationErrs) > 0 {
		return domain.Report{}, validationErrs, nil
	}

	stored, err := s.reportRepo.Upsert(ctx, report)
	if err != nil {
		return domain.Report{}, nil, fmt.Errorf("failed to save report: %w", err)
	}
	return stored, nil, nil
}
