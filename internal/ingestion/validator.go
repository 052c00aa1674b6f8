package ingestion

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/impactboard/impactboard/internal/domain"
)

// RequiredColumns is the fixed set of columns a bulk upload must carry.
// Matching is case-insensitive and order-independent; unknown extra
// columns are ignored.
var RequiredColumns = []string{
	"ngo_id",
	"month",
	"people_helped",
	"events_conducted",
	"funds_utilized",
}

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// ValidateHeaders checks the observed column names against
// RequiredColumns. On failure the error lists every missing column.
func ValidateHeaders(observed []string) error {
	present := make(map[string]bool, len(observed))
	for _, name := range observed {
		present[normalizeHeader(name)] = true
	}

	var missing []string
	for _, required := range RequiredColumns {
		if !present[required] {
			missing = append(missing, required)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

func normalizeHeader(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ValidateRecord validates one raw record and returns the normalized
// report alongside every error found for the row. Messages are
// prefixed with the 1-based row number; row number 0 suppresses the
// prefix for the single-submission path.
func ValidateRecord(fields map[string]string, rowNumber int) (domain.Report, []string) {
	var errs []string
	fail := func(reason string) {
		if rowNumber > 0 {
			errs = append(errs, fmt.Sprintf("row %d: %s", rowNumber, reason))
		} else {
			errs = append(errs, reason)
		}
	}

	ngoID := strings.TrimSpace(fields["ngo_id"])
	if ngoID == "" {
		fail("ngo_id is required")
	}

	month := strings.TrimSpace(fields["month"])
	if !monthPattern.MatchString(month) {
		fail("month must be in YYYY-MM format")
	}

	peopleHelped := parseNonNegativeInt(fields["people_helped"], "people_helped", fail)
	eventsConducted := parseNonNegativeInt(fields["events_conducted"], "events_conducted", fail)
	fundsUtilized := parseNonNegativeFloat(fields["funds_utilized"], "funds_utilized", fail)

	if len(errs) > 0 {
		return domain.Report{}, errs
	}

	return domain.NewReport(ngoID, month, peopleHelped, eventsConducted, fundsUtilized), nil
}

func parseNonNegativeInt(raw, field string, fail func(string)) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		fail(fmt.Sprintf("%s must be an integer", field))
		return 0
	}
	if value < 0 {
		fail(fmt.Sprintf("%s must be zero or greater", field))
		return 0
	}
	return value
}

func parseNonNegativeFloat(raw, field string, fail func(string)) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		fail(fmt.Sprintf("%s must be a number", field))
		return 0
	}
	if value < 0 {
		fail(fmt.Sprintf("%s must be zero or greater", field))
		return 0
	}
	return value
}
