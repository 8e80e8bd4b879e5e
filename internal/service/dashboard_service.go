package service

import (
	"context"
	"errors"

	"github.com/ledgerai/ledgerai-backend/internal/domain"
	"github.com/ledgerai/ledgerai-backend/internal/summary"
)

// DashboardService assembles the landing-page overview
type DashboardService struct {
	transactionRepo domain.TransactionRepository
	insights        *InsightService
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(transactionRepo domain.TransactionRepository, insights *InsightService) *DashboardService {
	return &DashboardService{
		transactionRepo: transactionRepo,
		insights:        insights,
	}
}

// GetOverview returns the summary for the most recent month with recorded
// activity. An empty store yields an empty overview, not an error.
func (s *DashboardService) GetOverview(ctx context.Context) (*domain.DashboardOverview, error) {
	latest, err := s.transactionRepo.LatestDate()
	if err != nil {
		if errors.Is(err, domain.ErrNoTransactions) {
			empty, err := summary.Summarize(nil)
			if err != nil {
				return nil, err
			}
			return &domain.DashboardOverview{Summary: empty}, nil
		}
		return nil, err
	}

	year, month := latest.Year(), latest.Month()

	transactions, err := s.transactionRepo.ListByPeriod(year, month)
	if err != nil {
		return nil, err
	}

	periodSummary, err := summary.Summarize(transactions)
	if err != nil {
		return nil, err
	}

	var narrative string
	if s.insights != nil && len(transactions) > 0 {
		narrative = s.insights.Narrative(ctx, year, month, periodSummary)
	}

	return &domain.DashboardOverview{
		Year:             year,
		Month:            month,
		TransactionCount: len(transactions),
		Summary:          periodSummary,
		Narrative:        narrative,
	}, nil
}
