package dashboard

import (
	"context"
	"testing"

	"github.com/impactboard/impactboard/internal/domain"
)

type stubReportRepo struct {
	aggregate domain.ReportAggregate
	page      []domain.Report
	total     int

	lastFilter domain.ReportFilter
	lastLimit  int
	lastOffset int
}

func (r *stubReportRepo) Upsert(_ context.Context, report domain.Report) (domain.Report, error) {
	return report, nil
}

func (r *stubReportRepo) Aggregate(_ context.Context, filter domain.ReportFilter) (domain.ReportAggregate, error) {
	r.lastFilter = filter
	return r.aggregate, nil
}

func (r *stubReportRepo) List(_ context.Context, filter domain.ReportFilter, limit int, offset int) ([]domain.Report, int, error) {
	r.lastFilter = filter
	r.lastLimit = limit
	r.lastOffset = offset

	end := offset + limit
	if end > len(r.page) {
		end = len(r.page)
	}
	if offset >= len(r.page) {
		return []domain.Report{}, r.total, nil
	}
	return r.page[offset:end], r.total, nil
}

func makeReports(n int) []domain.Report {
	reports := make([]domain.Report, n)
	for i := range reports {
		reports[i] = domain.NewReport("NGO001", "2024-01", i, 1, 100)
	}
	return reports
}

func TestFetchAppliesDefaultLimit(t *testing.T) {
	repo := &stubReportRepo{page: makeReports(45), total: 45}
	service := NewService(repo)

	result, err := service.Fetch(context.Background(), Query{})
	if err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}
	if repo.lastLimit != 20 {
		t.Fatalf("expected default limit 20, got %d", repo.lastLimit)
	}
	if len(result.Reports) != 20 || result.TotalCount != 45 {
		t.Fatalf("unexpected page: len=%d total=%d", len(result.Reports), result.TotalCount)
	}
	if !result.HasMore {
		t.Fatalf("expected hasMore=true for 45 records at offset 0")
	}
}

func TestFetchClampsLimitToMaximum(t *testing.T) {
	repo := &stubReportRepo{page: makeReports(5), total: 5}
	service := NewService(repo)

	if _, err := service.Fetch(context.Background(), Query{Limit: 500}); err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}
	if repo.lastLimit != 100 {
		t.Fatalf("expected limit clamped to 100, got %d", repo.lastLimit)
	}
}

func TestFetchFloorsNegativeOffset(t *testing.T) {
	repo := &stubReportRepo{page: makeReports(5), total: 5}
	service := NewService(repo)

	if _, err := service.Fetch(context.Background(), Query{Offset: -10}); err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}
	if repo.lastOffset != 0 {
		t.Fatalf("expected offset floored at 0, got %d", repo.lastOffset)
	}
}

func TestFetchLastPageHasNoMore(t *testing.T) {
	repo := &stubReportRepo{page: makeReports(45), total: 45}
	service := NewService(repo)

	result, err := service.Fetch(context.Background(), Query{Limit: 20, Offset: 40})
	if err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}
	if len(result.Reports) != 5 {
		t.Fatalf("expected 5 records on the last page, got %d", len(result.Reports))
	}
	if result.HasMore {
		t.Fatalf("expected hasMore=false on the last page")
	}
}

func TestFetchFoldsLiteralMonthIntoRange(t *testing.T) {
	repo := &stubReportRepo{}
	service := NewService(repo)

	_, err := service.Fetch(context.Background(), Query{
		Filter: domain.ReportFilter{Month: "2024-01"},
	})
	if err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}
	if repo.lastFilter.From != "2024-01" || repo.lastFilter.To != "2024-01" {
		t.Fatalf("expected month folded into range, got %+v", repo.lastFilter)
	}
}

func TestFetchReturnsAggregateSummary(t *testing.T) {
	repo := &stubReportRepo{
		aggregate: domain.ReportAggregate{
			NGOsReporting:        2,
			TotalPeopleHelped:    230,
			TotalEventsConducted: 7,
			TotalFundsUtilized:   62000.75,
		},
		page:  makeReports(2),
		total: 2,
	}
	service := NewService(repo)

	result, err := service.Fetch(context.Background(), Query{
		Filter: domain.ReportFilter{Month: "2024-01"},
	})
	if err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}
	if result.Summary.NGOsReporting != 2 || result.Summary.TotalPeopleHelped != 230 {
		t.Fatalf("unexpected summary: %+v", result.Summary)
	}
	if result.Summary.TotalFundsUtilized != 62000.75 {
		t.Fatalf("unexpected funds total: %v", result.Summary.TotalFundsUtilized)
	}
}
