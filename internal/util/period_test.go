package util

import (
	"testing"
	"time"
)

func TestPeriodBounds(t *testing.T) {
	start, end := PeriodBounds(2025, time.February)

	if start.Format("2006-01-02") != "2025-02-01" {
		t.Errorf("Expected start 2025-02-01, got %s", start.Format("2006-01-02"))
	}
	if end.Format("2006-01-02") != "2025-02-28" {
		t.Errorf("Expected end 2025-02-28, got %s", end.Format("2006-01-02"))
	}
}

func TestPeriodBounds_LeapYear(t *testing.T) {
	_, end := PeriodBounds(2024, time.February)
	if end.Day() != 29 {
		t.Errorf("Expected Feb 2024 to end on the 29th, got %d", end.Day())
	}
}

func TestValidPeriod(t *testing.T) {
	cases := []struct {
		year, month int
		want        bool
	}{
		{2025, 3, true},
		{2000, 1, true},
		{2100, 12, true},
		{1999, 5, false},
		{2101, 5, false},
		{2025, 0, false},
		{2025, 13, false},
	}
	for _, c := range cases {
		if got := ValidPeriod(c.year, c.month); got != c.want {
			t.Errorf("ValidPeriod(%d, %d) = %v, want %v", c.year, c.month, got, c.want)
		}
	}
}

func TestPeriodLabel(t *testing.T) {
	if got := PeriodLabel(2025, time.March); got != "March 2025" {
		t.Errorf("Expected 'March 2025', got %q", got)
	}
}
