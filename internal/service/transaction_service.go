package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerai/ledgerai-backend/internal/domain"
	"github.com/ledgerai/ledgerai-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// TransactionService handles transaction-related business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	eventPublisher  websocket.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *TransactionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *TransactionService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Kind        domain.Kind
	Category    string
}

// validateTransactionInput checks the shared create/update fields against
// domain.Transaction.Validate. Returns the trimmed description and category.
func validateTransactionInput(date time.Time, description string, amount decimal.Decimal, kind domain.Kind, category string) (string, string, error) {
	desc := strings.TrimSpace(description)
	cat := strings.TrimSpace(category)

	candidate := domain.Transaction{
		Date:        date,
		Description: desc,
		Amount:      amount,
		Kind:        kind,
		Category:    cat,
	}
	if err := candidate.Validate(); err != nil {
		return "", "", err
	}

	return desc, cat, nil
}

// CreateTransaction creates a new transaction with validation
func (s *TransactionService) CreateTransaction(input CreateTransactionInput) (*domain.Transaction, error) {
	desc, cat, err := validateTransactionInput(input.Date, input.Description, input.Amount, input.Kind, input.Category)
	if err != nil {
		return nil, err
	}

	transaction := &domain.Transaction{
		Date:        input.Date,
		Description: desc,
		Amount:      input.Amount,
		Kind:        input.Kind,
		Category:    cat,
	}

	created, err := s.transactionRepo.Create(transaction)
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.TransactionCreated(created))
	return created, nil
}

// GetTransactions retrieves transactions with optional filters and pagination
func (s *TransactionService) GetTransactions(filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	return s.transactionRepo.List(filters)
}

// GetTransactionByID retrieves a transaction by ID
func (s *TransactionService) GetTransactionByID(id uuid.UUID) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(id)
}

// UpdateTransactionInput holds the input for updating a transaction
type UpdateTransactionInput struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Kind        domain.Kind
	Category    string
}

// UpdateTransaction updates an existing transaction with validation
func (s *TransactionService) UpdateTransaction(id uuid.UUID, input UpdateTransactionInput) (*domain.Transaction, error) {
	desc, cat, err := validateTransactionInput(input.Date, input.Description, input.Amount, input.Kind, input.Category)
	if err != nil {
		return nil, err
	}

	updated, err := s.transactionRepo.Update(id, &domain.UpdateTransactionData{
		Date:        input.Date,
		Description: desc,
		Amount:      input.Amount,
		Kind:        input.Kind,
		Category:    cat,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.TransactionUpdated(updated))
	return updated, nil
}

// DeleteTransaction removes a transaction
func (s *TransactionService) DeleteTransaction(id uuid.UUID) error {
	if err := s.transactionRepo.Delete(id); err != nil {
		return err
	}

	s.publishEvent(websocket.TransactionDeleted(map[string]interface{}{"id": id.String()}))
	return nil
}
