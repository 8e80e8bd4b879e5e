package util

import "time"

// PeriodBounds returns the first and last day of the given calendar month.
func PeriodBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end
}

// ValidPeriod reports whether the year/month pair is a plausible reporting
// period.
func ValidPeriod(year int, month int) bool {
	return year >= 2000 && year <= 2100 && month >= 1 && month <= 12
}

// PeriodLabel formats a period the way it appears in reports, e.g.
// "March 2025".
func PeriodLabel(year int, month time.Month) string {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}
