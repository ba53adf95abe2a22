package domain

import "time"

// Report represents a complete forecast evaluation report.
type Report struct {
	Title    string
	Symbol   string
	Period   TimePeriod
	Sections []ReportSection

	// BestModel is the identifier of the model with the lowest MAPE.
	BestModel string
}

// TimePeriod represents the date range the report covers.
type TimePeriod struct {
	Start        time.Time
	End          time.Time
	Observations int
}

// ReportSection represents one model's slice of the report.
type ReportSection struct {
	Title   string
	Summary map[string]string
	Details []ReportDetail
}

// ReportDetail represents one metric row within a section.
type ReportDetail struct {
	Name        string
	Value       float64
	Unit        string
	Description string
}
