package service

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/ledgerai/ledgerai-backend/internal/domain"
	"github.com/ledgerai/ledgerai-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// csvDateLayout is the expected date format in import files
const csvDateLayout = "2006-01-02"

// importRow maps one CSV record. Header names are matched case-sensitively.
type importRow struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
	Type        string `csv:"Type"`
	Category    string `csv:"Category"`
}

// ImportResult reports the outcome of a CSV import
type ImportResult struct {
	Imported int `json:"imported"`
}

// ImportService handles bulk transaction imports from CSV files
type ImportService struct {
	transactionRepo domain.TransactionRepository
	eventPublisher  websocket.EventPublisher
}

// NewImportService creates a new ImportService
func NewImportService(transactionRepo domain.TransactionRepository) *ImportService {
	return &ImportService{
		transactionRepo: transactionRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ImportService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// ImportCSV parses and stores all transactions from a CSV file. The import
// is all-or-nothing: a single invalid row rejects the whole file and nothing
// is stored.
func (s *ImportService) ImportCSV(data io.Reader) (*ImportResult, error) {
	var rows []*importRow
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: failed to parse CSV: %v", domain.ErrInvalidTransaction, err)
	}

	if len(rows) == 0 {
		return &ImportResult{Imported: 0}, nil
	}

	transactions := make([]*domain.Transaction, 0, len(rows))
	for i, row := range rows {
		// Data rows start at line 2, after the header
		line := i + 2

		transaction, err := parseImportRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		transactions = append(transactions, transaction)
	}

	count, err := s.transactionRepo.CreateBatch(transactions)
	if err != nil {
		return nil, err
	}

	log.Info().Int("count", count).Msg("Imported transactions from CSV")

	if s.eventPublisher != nil {
		s.eventPublisher.Publish(websocket.TransactionsImported(map[string]interface{}{
			"count": count,
		}))
	}

	return &ImportResult{Imported: count}, nil
}

// parseImportRow converts a CSV row into a validated transaction. Field
// constraints beyond the string conversions are enforced by
// domain.Transaction.Validate.
func parseImportRow(row *importRow) (*domain.Transaction, error) {
	date, err := time.Parse(csvDateLayout, strings.TrimSpace(row.Date))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", domain.ErrInvalidTransaction, row.Date)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(row.Amount))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid amount %q", domain.ErrInvalidTransaction, row.Amount)
	}

	transaction := &domain.Transaction{
		Date:        date,
		Description: strings.TrimSpace(row.Description),
		Amount:      amount,
		Kind:        domain.Kind(strings.ToLower(strings.TrimSpace(row.Type))),
		Category:    strings.TrimSpace(row.Category),
	}
	if err := transaction.Validate(); err != nil {
		return nil, err
	}

	return transaction, nil
}
