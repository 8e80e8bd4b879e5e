package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UncategorizedKey is the grouping key used for expense transactions whose
// category is blank. It exists only at aggregation time; blank categories
// are stored blank.
const UncategorizedKey = "Uncategorized"

// DailyTotal is the total dollar volume moved on a single date, income and
// expenses both counted as positive magnitudes.
type DailyTotal struct {
	Date  time.Time       `json:"date"`
	Total decimal.Decimal `json:"total"`
}

// PeriodSummary is the aggregated numeric projection of a transaction
// collection. It has no identity or storage of its own and is recomputed
// on demand.
type PeriodSummary struct {
	TotalIncome            decimal.Decimal          `json:"totalIncome"`
	TotalExpense           decimal.Decimal          `json:"totalExpense"`
	TotalExpenseByCategory map[string]decimal.Decimal `json:"totalExpenseByCategory"`
	TotalByKind            map[Kind]decimal.Decimal `json:"totalByKind"`
	NetAmount              decimal.Decimal          `json:"netAmount"`
	DailyTotals            []DailyTotal             `json:"dailyTotals"`
}

// PeriodReport bundles everything the report surface needs for one calendar
// month: the raw rows, their summary, and the narrative commentary.
type PeriodReport struct {
	Year         int            `json:"year"`
	Month        time.Month     `json:"month"`
	Summary      *PeriodSummary `json:"summary"`
	Narrative    string         `json:"narrative,omitempty"`
	Transactions []Transaction  `json:"transactions"`
	GeneratedAt  time.Time      `json:"generatedAt"`
}

// ReportArtifacts holds download locations for the rendered report document
// and the raw data export.
type ReportArtifacts struct {
	ReportURL     string `json:"reportUrl"`
	DataExportURL string `json:"dataExportUrl"`
}

// DashboardOverview is the landing-page projection: the most recent month
// with recorded activity and its summary.
type DashboardOverview struct {
	Year             int            `json:"year"`
	Month            time.Month     `json:"month"`
	TransactionCount int            `json:"transactionCount"`
	Summary          *PeriodSummary `json:"summary"`
	Narrative        string         `json:"narrative,omitempty"`
}
