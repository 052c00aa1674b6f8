package domain

// ReportFilter represents filtering options for dashboard reads.
// Month bounds are inclusive YYYY-MM strings; lexicographic order on
// that shape matches chronological order. A literal Month filter is
// shorthand for From = To = Month.
type ReportFilter struct {
	From  string
	To    string
	Month string
	NGOID string
}

// Normalized folds a literal month filter into the range bounds.
func (f ReportFilter) Normalized() ReportFilter {
	if f.Month != "" {
		f.From = f.Month
		f.To = f.Month
	}
	return f
}
