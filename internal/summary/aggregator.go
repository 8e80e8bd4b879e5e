// Package summary computes period summaries from transaction collections.
// Everything in this package is a pure function: no I/O, no shared state,
// safe to call concurrently.
package summary

import (
	"fmt"
	"sort"
	"time"

	"github.com/ledgerai/ledgerai-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Summarize aggregates a transaction collection into a PeriodSummary.
//
// The call is all-or-nothing: if any record fails domain.Transaction.Validate
// (negative amount, missing date, unknown kind, malformed description or
// category) the whole call fails and no partial result is returned. Callers
// needing best-effort results must pre-filter the input themselves.
//
// An empty input is not an error; it yields zero totals and an empty daily
// series. The input slice is never mutated.
func Summarize(transactions []domain.Transaction) (*domain.PeriodSummary, error) {
	for i := range transactions {
		if err := transactions[i].Validate(); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
	}

	s := &domain.PeriodSummary{
		TotalIncome:            decimal.Zero,
		TotalExpense:           decimal.Zero,
		TotalExpenseByCategory: make(map[string]decimal.Decimal),
		TotalByKind: map[domain.Kind]decimal.Decimal{
			domain.KindIncome:  decimal.Zero,
			domain.KindExpense: decimal.Zero,
		},
		NetAmount:   decimal.Zero,
		DailyTotals: []domain.DailyTotal{},
	}

	byDay := make(map[time.Time]decimal.Decimal)

	for i := range transactions {
		t := &transactions[i]

		switch t.Kind {
		case domain.KindIncome:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		case domain.KindExpense:
			s.TotalExpense = s.TotalExpense.Add(t.Amount)
			key := t.Category
			if key == "" {
				key = domain.UncategorizedKey
			}
			s.TotalExpenseByCategory[key] = s.TotalExpenseByCategory[key].Add(t.Amount)
		}

		// Daily totals count both kinds as unsigned magnitudes: total dollar
		// volume moved that day, not net cash flow.
		day := dateOnly(t.Date)
		byDay[day] = byDay[day].Add(t.Amount)
	}

	s.TotalByKind[domain.KindIncome] = s.TotalIncome
	s.TotalByKind[domain.KindExpense] = s.TotalExpense
	s.NetAmount = s.TotalIncome.Sub(s.TotalExpense)

	s.DailyTotals = make([]domain.DailyTotal, 0, len(byDay))
	for day, total := range byDay {
		s.DailyTotals = append(s.DailyTotals, domain.DailyTotal{Date: day, Total: total})
	}
	sort.Slice(s.DailyTotals, func(i, j int) bool {
		return s.DailyTotals[i].Date.Before(s.DailyTotals[j].Date)
	})

	return s, nil
}

// FilterByPeriod returns the transactions whose date falls within the given
// calendar month. It never fails; an empty result is an empty slice.
func FilterByPeriod(transactions []domain.Transaction, year int, month time.Month) []domain.Transaction {
	out := make([]domain.Transaction, 0)
	for _, t := range transactions {
		if t.Date.Year() == year && t.Date.Month() == month {
			out = append(out, t)
		}
	}
	return out
}

// dateOnly truncates a timestamp to its calendar date in UTC so that
// transactions recorded at different times of the same day group together.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
