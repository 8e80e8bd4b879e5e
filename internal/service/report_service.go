package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/ledgerai/ledgerai-backend/internal/domain"
	"github.com/ledgerai/ledgerai-backend/internal/repository/storage"
	"github.com/ledgerai/ledgerai-backend/internal/summary"
	"github.com/ledgerai/ledgerai-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// presignedURLExpiry is how long artifact download links stay valid
const presignedURLExpiry = 1 * time.Hour

// exportRow is the CSV shape of one transaction in the data export. It
// mirrors the import format so exports can be re-imported.
type exportRow struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
	Type        string `csv:"Type"`
	Category    string `csv:"Category"`
}

// ReportService builds monthly reports and generates downloadable artifacts
type ReportService struct {
	transactionRepo domain.TransactionRepository
	objectRepo      storage.ObjectRepository
	insights        *InsightService
	eventPublisher  websocket.EventPublisher
}

// NewReportService creates a new ReportService. The object repository may be
// nil, in which case artifact generation is unavailable.
func NewReportService(transactionRepo domain.TransactionRepository, objectRepo storage.ObjectRepository, insights *InsightService) *ReportService {
	return &ReportService{
		transactionRepo: transactionRepo,
		objectRepo:      objectRepo,
		insights:        insights,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ReportService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// GetPeriodSummary computes the aggregate summary for one calendar month
func (s *ReportService) GetPeriodSummary(year int, month time.Month) (*domain.PeriodSummary, error) {
	transactions, err := s.transactionRepo.ListByPeriod(year, month)
	if err != nil {
		return nil, err
	}
	return summary.Summarize(transactions)
}

// GetPeriodReport builds the full report for one calendar month: rows,
// summary, and narrative.
func (s *ReportService) GetPeriodReport(ctx context.Context, year int, month time.Month) (*domain.PeriodReport, error) {
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

	return &domain.PeriodReport{
		Year:         year,
		Month:        month,
		Summary:      periodSummary,
		Narrative:    narrative,
		Transactions: transactions,
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

// GenerateArtifacts builds the report, renders it as a JSON document plus a
// CSV data export, uploads both to object storage, and returns presigned
// download URLs. Returns domain.ErrArtifactNotAvailable when object storage
// is not configured.
func (s *ReportService) GenerateArtifacts(ctx context.Context, year int, month time.Month) (*domain.ReportArtifacts, error) {
	if s.objectRepo == nil {
		return nil, domain.ErrArtifactNotAvailable
	}

	report, err := s.GetPeriodReport(ctx, year, month)
	if err != nil {
		return nil, err
	}

	reportJSON, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	exportCSV, err := marshalExport(report.Transactions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export: %w", err)
	}

	reportPath := storage.ReportObjectPath(year, int(month), "report.json")
	exportPath := storage.ReportObjectPath(year, int(month), "transactions.csv")

	if _, err := s.objectRepo.Upload(ctx, reportPath, bytes.NewReader(reportJSON), "application/json", int64(len(reportJSON))); err != nil {
		return nil, err
	}
	if _, err := s.objectRepo.Upload(ctx, exportPath, bytes.NewReader(exportCSV), "text/csv", int64(len(exportCSV))); err != nil {
		return nil, err
	}

	reportURL, err := s.objectRepo.GeneratePresignedURL(ctx, reportPath, presignedURLExpiry)
	if err != nil {
		return nil, err
	}
	exportURL, err := s.objectRepo.GeneratePresignedURL(ctx, exportPath, presignedURLExpiry)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("year", year).
		Int("month", int(month)).
		Int("transaction_count", len(report.Transactions)).
		Msg("Generated report artifacts")

	if s.eventPublisher != nil {
		s.eventPublisher.Publish(websocket.ReportGenerated(map[string]interface{}{
			"year":  year,
			"month": int(month),
		}))
	}

	return &domain.ReportArtifacts{
		ReportURL:     reportURL,
		DataExportURL: exportURL,
	}, nil
}

// marshalExport renders transactions as CSV in the import-compatible layout
func marshalExport(transactions []domain.Transaction) ([]byte, error) {
	rows := make([]*exportRow, 0, len(transactions))
	for _, t := range transactions {
		rows = append(rows, &exportRow{
			Date:        t.Date.Format(csvDateLayout),
			Description: t.Description,
			Amount:      t.Amount.StringFixed(2),
			Type:        string(t.Kind),
			Category:    t.Category,
		})
	}

	var buf bytes.Buffer
	if err := gocsv.Marshal(rows, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
