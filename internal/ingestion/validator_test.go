package ingestion

import (
	"strings"
	"testing"
)

func TestValidateHeadersAcceptsRequiredColumns(t *testing.T) {
	headers := []string{"ngo_id", "month", "people_helped", "events_conducted", "funds_utilized"}
	if err := ValidateHeaders(headers); err != nil {
		t.Fatalf("expected headers to validate, got %v", err)
	}
}

func TestValidateHeadersIgnoresCaseOrderAndExtras(t *testing.T) {
	headers := []string{"Funds_Utilized", " MONTH ", "notes", "people_helped", "NGO_ID", "events_conducted"}
	if err := ValidateHeaders(headers); err != nil {
		t.Fatalf("expected headers to validate, got %v", err)
	}
}

func TestValidateHeadersListsEveryMissingColumn(t *testing.T) {
	err := ValidateHeaders([]string{"ngo_id", "people_helped", "events_conducted"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	message := err.Error()
	if !strings.Contains(message, "missing required columns") {
		t.Fatalf("unexpected message: %s", message)
	}
	if !strings.Contains(message, "month") || !strings.Contains(message, "funds_utilized") {
		t.Fatalf("expected both missing columns in message, got: %s", message)
	}
}

func TestValidateRecordNormalizesValidInput(t *testing.T) {
	report, errs := ValidateRecord(map[string]string{
		"ngo_id":           " NGO001 ",
		"month":            "2024-01",
		"people_helped":    "150",
		"events_conducted": "5",
		"funds_utilized":   "50000.50",
	}, 1)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if report.NGOID != "NGO001" {
		t.Fatalf("expected trimmed ngo_id, got %q", report.NGOID)
	}
	if report.PeopleHelped != 150 || report.EventsConducted != 5 {
		t.Fatalf("unexpected numeric fields: %+v", report)
	}
	if report.FundsUtilized != 50000.50 {
		t.Fatalf("unexpected funds_utilized: %v", report.FundsUtilized)
	}
}

func TestValidateRecordCollectsAllErrors(t *testing.T) {
	_, errs := ValidateRecord(map[string]string{
		"ngo_id":           "  ",
		"month":            "Jan 2024",
		"people_helped":    "lots",
		"events_conducted": "-2",
		"funds_utilized":   "free",
	}, 3)
	if len(errs) != 5 {
		t.Fatalf("expected 5 errors, got %d: %v", len(errs), errs)
	}
	for _, msg := range errs {
		if !strings.HasPrefix(msg, "row 3: ") {
			t.Fatalf("expected row prefix on %q", msg)
		}
	}
}

func TestValidateRecordAcceptsNonCalendarMonthShape(t *testing.T) {
	// Only the YYYY-MM shape is checked, not calendar validity.
	_, errs := ValidateRecord(map[string]string{
		"ngo_id":           "NGO002",
		"month":            "2024-13",
		"people_helped":    "1",
		"events_conducted": "0",
		"funds_utilized":   "0",
	}, 1)
	if len(errs) != 0 {
		t.Fatalf("expected 2024-13 to pass the shape check, got %v", errs)
	}
}

func TestValidateRecordRejectsNegativeFunds(t *testing.T) {
	_, errs := ValidateRecord(map[string]string{
		"ngo_id":           "NGO002",
		"month":            "2024-02",
		"people_helped":    "0",
		"events_conducted": "0",
		"funds_utilized":   "-0.01",
	}, 2)
	if len(errs) != 1 || !strings.Contains(errs[0], "funds_utilized") {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestValidateRecordOmitsRowPrefixForRowZero(t *testing.T) {
	_, errs := ValidateRecord(map[string]string{}, 0)
	if len(errs) == 0 {
		t.Fatalf("expected errors for empty record")
	}
	for _, msg := range errs {
		if strings.HasPrefix(msg, "row ") {
			t.Fatalf("did not expect row prefix on %q", msg)
		}
	}
}
