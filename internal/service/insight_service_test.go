package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ledgerai/ledgerai-backend/internal/domain"
	"github.com/ledgerai/ledgerai-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func marchSummary() *domain.PeriodSummary {
	return &domain.PeriodSummary{
		TotalIncome:  decimal.NewFromInt(9200),
		TotalExpense: decimal.NewFromInt(8526),
		NetAmount:    decimal.NewFromInt(674),
		TotalExpenseByCategory: map[string]decimal.Decimal{
			"Payroll":   decimal.NewFromInt(8200),
			"Utilities": decimal.NewFromInt(326),
		},
	}
}

func TestNarrative_UsesClient(t *testing.T) {
	client := &testutil.MockNarrativeClient{Narrative: "A strong month overall."}
	svc := NewInsightService(client)

	got := svc.Narrative(context.Background(), 2025, time.March, marchSummary())
	if got != "A strong month overall." {
		t.Errorf("Expected client narrative, got %q", got)
	}

	if len(client.Prompts) != 1 {
		t.Fatalf("Expected 1 prompt, got %d", len(client.Prompts))
	}
	prompt := client.Prompts[0]
	for _, want := range []string{"March 2025", "$9200.00", "$8526.00", "Payroll"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected prompt to contain %q, got:\n%s", want, prompt)
		}
	}
}

func TestNarrative_FallbackOnClientError(t *testing.T) {
	client := &testutil.MockNarrativeClient{Err: errors.New("quota exceeded")}
	svc := NewInsightService(client)

	got := svc.Narrative(context.Background(), 2025, time.March, marchSummary())
	want := "In March 2025, revenue was $9,200.00. Total expenses were $8,526.00. Net profit: $674.00."
	if got != want {
		t.Errorf("Expected fallback narrative %q, got %q", want, got)
	}
}

func TestNarrative_FallbackWithoutClient(t *testing.T) {
	svc := NewInsightService(nil)

	got := svc.Narrative(context.Background(), 2025, time.March, marchSummary())
	if !strings.HasPrefix(got, "In March 2025, revenue was") {
		t.Errorf("Expected fallback narrative, got %q", got)
	}
}

func TestFallbackNarrative_NegativeNet(t *testing.T) {
	s := &domain.PeriodSummary{
		TotalIncome:  decimal.NewFromInt(100),
		TotalExpense: decimal.NewFromInt(250),
		NetAmount:    decimal.NewFromInt(-150),
	}

	got := fallbackNarrative(2025, time.April, s)
	if !strings.Contains(got, "Net profit: $-150.00.") {
		t.Errorf("Expected negative net in narrative, got %q", got)
	}
}

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"686", "686.00"},
		{"9200", "9,200.00"},
		{"1234567.89", "1,234,567.89"},
		{"-1500", "-1,500.00"},
	}
	for _, c := range cases {
		d, _ := decimal.NewFromString(c.in)
		if got := formatMoney(d); got != c.want {
			t.Errorf("formatMoney(%s) = %q, want %q", c.in, got, c.want)
		}
	}
}
