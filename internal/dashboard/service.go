package dashboard

import (
	"context"
	"fmt"

	"github.com/impactboard/impactboard/internal/domain"
	"github.com/impactboard/impactboard/internal/repository"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// Service composes aggregate and paginated reads for the dashboard.
type Service struct {
	reportRepo repository.ReportRepository
}

// NewService creates a new dashboard query service.
func NewService(reportRepo repository.ReportRepository) *Service {
	return &Service{reportRepo: reportRepo}
}

// Query carries dashboard filter and pagination parameters.
type Query struct {
	Filter domain.ReportFilter
	Limit  int
	Offset int
}

// Result is one dashboard page plus the aggregate over the whole
// filtered set.
type Result struct {
	Summary    domain.ReportAggregate `json:"summary"`
	Reports    []domain.Report        `json:"reports"`
	TotalCount int                    `json:"totalCount"`
	HasMore    bool                   `json:"hasMore"`
	Limit      int                    `json:"limit"`
	Offset     int                    `json:"offset"`
}

// Fetch runs the aggregate and page queries for the filter. Limit is
// clamped to [1, 100] with a default of 20; negative offsets are
// floored at zero.
func (s *Service) Fetch(ctx context.Context, query Query) (Result, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	filter := query.Filter.Normalized()

	summary, err := s.reportRepo.Aggregate(ctx, filter)
	if err != nil {
		return Result{}, fmt.Errorf("failed to aggregate dashboard data: %w", err)
	}

	page, total, err := s.reportRepo.List(ctx, filter, limit, offset)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list dashboard reports: %w", err)
	}
	if page == nil {
		page = []domain.Report{}
	}

	return Result{
		Summary:    summary,
		Reports:    page,
		TotalCount: total,
		HasMore:    offset+len(page) < total,
		Limit:      limit,
		Offset:     offset,
	}, nil
}
