package reports

import (
	"context"
	"strings"
	"testing"

	"github.com/impactboard/impactboard/internal/domain"
)

type stubReportRepo struct {
	reports map[string]domain.Report
}

func newStubReportRepo() *stubReportRepo {
	return &stubReportRepo{reports: map[string]domain.Report{}}
}

func (r *stubReportRepo) Upsert(_ context.Context, report domain.Report) (domain.Report, error) {
	r.reports[report.NGOID+"|"+report.Month] = report
	return report, nil
}

func (r *stubReportRepo) Aggregate(context.Context, domain.ReportFilter) (domain.ReportAggregate, error) {
	return domain.ReportAggregate{}, nil
}

func (r *stubReportRepo) List(context.Context, domain.ReportFilter, int, int) ([]domain.Report, int, error) {
	return nil, 0, nil
}

func TestSubmitStoresValidReport(t *testing.T) {
	repo := newStubReportRepo()
	service := NewService(repo)

	report, validationErrs, err := service.Submit(context.Background(), Submission{
		NGOID:           "NGO001",
		Month:           "2024-01",
		PeopleHelped:    "150",
		EventsConducted: "5",
		FundsUtilized:   "50000",
	})
	if err != nil {
		t.Fatalf("submit returned error: %v", err)
	}
	if len(validationErrs) != 0 {
		t.Fatalf("unexpected validation errors: %v", validationErrs)
	}
	if report.PeopleHelped != 150 || report.FundsUtilized != 50000 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(repo.reports) != 1 {
		t.Fatalf("expected 1 stored report, got %d", len(repo.reports))
	}
}

func TestSubmitLastWriteWinsOnSameKey(t *testing.T) {
	repo := newStubReportRepo()
	service := NewService(repo)

	submissions := []Submission{
		{NGOID: "NGO001", Month: "2024-01", PeopleHelped: "150", EventsConducted: "5", FundsUtilized: "50000"},
		{NGOID: "NGO001", Month: "2024-01", PeopleHelped: "200", EventsConducted: "6", FundsUtilized: "60000"},
	}
	for _, submission := range submissions {
		if _, validationErrs, err := service.Submit(context.Background(), submission); err != nil || len(validationErrs) != 0 {
			t.Fatalf("submit failed: err=%v validation=%v", err, validationErrs)
		}
	}

	if len(repo.reports) != 1 {
		t.Fatalf("expected a single record for the key, got %d", len(repo.reports))
	}
	stored := repo.reports["NGO001|2024-01"]
	if stored.PeopleHelped != 200 || stored.EventsConducted != 6 || stored.FundsUtilized != 60000 {
		t.Fatalf("expected latest values to win, got %+v", stored)
	}
}

func TestSubmitReturnsAllValidationErrors(t *testing.T) {
	repo := newStubReportRepo()
	service := NewService(repo)

	_, validationErrs, err := service.Submit(context.Background(), Submission{
		NGOID:           "",
		Month:           "2024/01",
		PeopleHelped:    "-1",
		EventsConducted: "two",
		FundsUtilized:   "",
	})
	if err != nil {
		t.Fatalf("submit returned error: %v", err)
	}
	if len(validationErrs) != 5 {
		t.Fatalf("expected 5 validation errors, got %d: %v", len(validationErrs), validationErrs)
	}
	for _, msg := range validationErrs {
		if strings.HasPrefix(msg, "row ") {
			t.Fatalf("single submissions must not carry row prefixes: %q", msg)
		}
	}
	if len(repo.reports) != 0 {
		t.Fatalf("invalid submission must not be stored")
	}
}
