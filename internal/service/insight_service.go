package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ledgerai/ledgerai-backend/internal/domain"
	"github.com/ledgerai/ledgerai-backend/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"google.golang.org/genai"

	cfg "github.com/ledgerai/ledgerai-backend/internal/config"
)

// NarrativeClient generates a natural-language narrative from a prompt
type NarrativeClient interface {
	GenerateNarrative(ctx context.Context, prompt string) (string, error)
}

// GeminiClient implements NarrativeClient using the Gemini API
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a new Gemini-backed narrative client
func NewGeminiClient(ctx context.Context, geminiCfg cfg.GeminiConfig) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  geminiCfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  geminiCfg.Model,
	}, nil
}

// GenerateNarrative sends the prompt to Gemini and returns the response text
func (c *GeminiClient) GenerateNarrative(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}

// InsightService produces a narrative summary of a period. When no narrative
// client is configured, or the client fails, it falls back to a deterministic
// sentence built from the summary figures.
type InsightService struct {
	client NarrativeClient
}

// NewInsightService creates a new InsightService. The client may be nil.
func NewInsightService(client NarrativeClient) *InsightService {
	return &InsightService{client: client}
}

// Narrative returns a narrative for the given period summary. It never fails;
// the deterministic fallback covers client errors.
func (s *InsightService) Narrative(ctx context.Context, year int, month time.Month, summary *domain.PeriodSummary) string {
	if s.client != nil {
		narrative, err := s.client.GenerateNarrative(ctx, buildPrompt(year, month, summary))
		if err == nil {
			return narrative
		}
		log.Warn().Err(err).Msg("Narrative generation failed, using fallback")
	}
	return fallbackNarrative(year, month, summary)
}

// buildPrompt assembles the model prompt from the period figures
func buildPrompt(year int, month time.Month, summary *domain.PeriodSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a financial analyst. Write a short, plain-language summary (2-3 sentences) of the following monthly figures for %s.\n", util.PeriodLabel(year, month))
	fmt.Fprintf(&b, "Total income: $%s\n", summary.TotalIncome.StringFixed(2))
	fmt.Fprintf(&b, "Total expenses: $%s\n", summary.TotalExpense.StringFixed(2))
	fmt.Fprintf(&b, "Net amount: $%s\n", summary.NetAmount.StringFixed(2))

	if len(summary.TotalExpenseByCategory) > 0 {
		b.WriteString("Expenses by category:\n")
		for category, total := range summary.TotalExpenseByCategory {
			fmt.Fprintf(&b, "- %s: $%s\n", category, total.StringFixed(2))
		}
	}

	b.WriteString("Do not invent figures that are not listed above.")
	return b.String()
}

// fallbackNarrative builds the deterministic summary sentence
func fallbackNarrative(year int, month time.Month, summary *domain.PeriodSummary) string {
	return fmt.Sprintf("In %s, revenue was $%s. Total expenses were $%s. Net profit: $%s.",
		util.PeriodLabel(year, month),
		formatMoney(summary.TotalIncome),
		formatMoney(summary.TotalExpense),
		formatMoney(summary.NetAmount))
}

// formatMoney renders a decimal with two places and thousands separators
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)

	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	dot := strings.Index(s, ".")
	intPart, fracPart := s[:dot], s[dot:]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	result := b.String() + fracPart
	if negative {
		result = "-" + result
	}
	return result
}
