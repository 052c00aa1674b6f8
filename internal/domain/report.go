package domain

import (
	"time"
)

// Report holds one NGO's impact metrics for a single calendar month.
// Reports are keyed by (ngo_id, month); resubmitting the same key
// replaces the stored values.
type Report struct {
	NGOID           string    `json:"ngo_id"`
	Month           string    `json:"month"`
	PeopleHelped    int       `json:"people_helped"`
	EventsConducted int       `json:"events_conducted"`
	FundsUtilized   float64   `json:"funds_utilized"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewReport creates a report with timestamps set to now.
func NewReport(ngoID, month string, peopleHelped, eventsConducted int, fundsUtilized float64) Report {
	now := time.Now()
	return Report{
		NGOID:           ngoID,
		Month:           month,
		PeopleHelped:    peopleHelped,
		EventsConducted: eventsConducted,
		FundsUtilized:   fundsUtilized,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// ReportAggregate summarizes a filtered set of reports for the dashboard.
type ReportAggregate struct {
	NGOsReporting        int     `json:"totalNgosReporting"`
	TotalPeopleHelped    int64   `json:"totalPeopleHelped"`
	TotalEventsConducted int64   `json:"totalEventsConducted"`
	TotalFundsUtilized   float64 `json:"totalFundsUtilized"`
}
