package model

// ReportType selects the reporting window.
type ReportType string

const (
	ReportDaily   ReportType = "daily"
	ReportWeekly  ReportType = "weekly"
	ReportMonthly ReportType = "monthly"
	ReportYearly  ReportType = "yearly"
	ReportCustom  ReportType = "custom"
)

// PlanFilter restricts a report to one membership plan.
type PlanFilter string

const (
	PlanAll      PlanFilter = "all"
	PlanPrestige PlanFilter = "prestige"
	PlanPremier  PlanFilter = "premier"
)

// ReportFormat is the rendered file type.
type ReportFormat string

const (
	FormatCSV  ReportFormat = "csv"
	FormatXLSX ReportFormat = "xlsx"
)

// DateRange is an inclusive span of calendar days.
type DateRange struct {
	From Date
	To   Date
}

// Contains reports whether d lies inside the range.
func (r DateRange) Contains(d Date) bool {
	return !d.Before(r.From) && !d.After(r.To)
}

// ReportRequest describes a customer export.
type ReportRequest struct {
	Type   ReportType
	Plan   PlanFilter
	From   *Date
	To     *Date
	Format ReportFormat
}

// Report is a rendered export ready for download.
type Report struct {
	Filename    string
	ContentType string
	Body        []byte
	Rows        int
}
