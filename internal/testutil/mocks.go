package testutil

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerai/ledgerai-backend/internal/domain"
	"github.com/ledgerai/ledgerai-backend/internal/websocket"
)

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[uuid.UUID]*domain.Transaction
	CreateFn     func(transaction *domain.Transaction) (*domain.Transaction, error)
	CreateErr    error
	BatchErr     error
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[uuid.UUID]*domain.Transaction),
	}
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(transaction *domain.Transaction) {
	if transaction.ID == uuid.Nil {
		transaction.ID = uuid.New()
	}
	m.Transactions[transaction.ID] = transaction
}

// Create creates a new transaction
func (m *MockTransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(transaction)
	}
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	stored := *transaction
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	m.Transactions[stored.ID] = &stored
	return &stored, nil
}

// CreateBatch stores all transactions or none
func (m *MockTransactionRepository) CreateBatch(transactions []*domain.Transaction) (int, error) {
	if m.BatchErr != nil {
		return 0, m.BatchErr
	}
	for _, t := range transactions {
		stored := *t
		stored.ID = uuid.New()
		stored.CreatedAt = time.Now().UTC()
		stored.UpdatedAt = stored.CreatedAt
		m.Transactions[stored.ID] = &stored
	}
	return len(transactions), nil
}

// GetByID retrieves a transaction by ID
func (m *MockTransactionRepository) GetByID(id uuid.UUID) (*domain.Transaction, error) {
	if t, ok := m.Transactions[id]; ok {
		return t, nil
	}
	return nil, domain.ErrTransactionNotFound
}

// List retrieves transactions with filters and pagination, newest first
func (m *MockTransactionRepository) List(filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	matched := make([]*domain.Transaction, 0, len(m.Transactions))
	for _, t := range m.Transactions {
		if filters != nil {
			if filters.Kind != nil && t.Kind != *filters.Kind {
				continue
			}
			if filters.Category != nil && t.Category != *filters.Category {
				continue
			}
			if filters.StartDate != nil && t.Date.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && t.Date.After(*filters.EndDate) {
				continue
			}
		}
		matched = append(matched, t)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Date.After(matched[j].Date)
	})

	page := int32(1)
	pageSize := int32(domain.DefaultPageSize)
	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PageSize > 0 {
			pageSize = filters.PageSize
		}
	}

	totalItems := int64(len(matched))
	totalPages := int32(totalItems / int64(pageSize))
	if totalItems%int64(pageSize) > 0 {
		totalPages++
	}

	start := (page - 1) * pageSize
	if start > int32(len(matched)) {
		start = int32(len(matched))
	}
	end := start + pageSize
	if end > int32(len(matched)) {
		end = int32(len(matched))
	}

	return &domain.PaginatedTransactions{
		Data:       matched[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// ListByPeriod retrieves all transactions within a calendar month, oldest first
func (m *MockTransactionRepository) ListByPeriod(year int, month time.Month) ([]domain.Transaction, error) {
	result := make([]domain.Transaction, 0)
	for _, t := range m.Transactions {
		if t.Date.Year() == year && t.Date.Month() == month {
			result = append(result, *t)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

// LatestDate returns the most recent transaction date
func (m *MockTransactionRepository) LatestDate() (time.Time, error) {
	if len(m.Transactions) == 0 {
		return time.Time{}, domain.ErrNoTransactions
	}
	var latest time.Time
	for _, t := range m.Transactions {
		if t.Date.After(latest) {
			latest = t.Date
		}
	}
	return latest, nil
}

// Update replaces a transaction's mutable fields
func (m *MockTransactionRepository) Update(id uuid.UUID, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	t, ok := m.Transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	t.Date = data.Date
	t.Description = data.Description
	t.Amount = data.Amount
	t.Kind = data.Kind
	t.Category = data.Category
	t.UpdatedAt = time.Now().UTC()
	return t, nil
}

// Delete removes a transaction
func (m *MockTransactionRepository) Delete(id uuid.UUID) error {
	if _, ok := m.Transactions[id]; !ok {
		return domain.ErrTransactionNotFound
	}
	delete(m.Transactions, id)
	return nil
}

// SetReceiptPath attaches a receipt object path to a transaction
func (m *MockTransactionRepository) SetReceiptPath(id uuid.UUID, receiptPath string) (*domain.Transaction, error) {
	t, ok := m.Transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	t.ReceiptPath = &receiptPath
	t.UpdatedAt = time.Now().UTC()
	return t, nil
}

// MockObjectRepository is a mock implementation of storage.ObjectRepository
type MockObjectRepository struct {
	Uploads   map[string][]byte
	Deleted   []string
	UploadErr error
	mu        sync.Mutex
}

// NewMockObjectRepository creates a new MockObjectRepository
func NewMockObjectRepository() *MockObjectRepository {
	return &MockObjectRepository{
		Uploads: make(map[string][]byte),
	}
}

// Upload records the uploaded object and returns its path
func (m *MockObjectRepository) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	buf, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	m.Uploads[objectPath] = buf
	m.mu.Unlock()
	return objectPath, nil
}

// Delete records the deleted object path
func (m *MockObjectRepository) Delete(ctx context.Context, objectPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Uploads, objectPath)
	m.Deleted = append(m.Deleted, objectPath)
	return nil
}

// GeneratePresignedURL returns a deterministic fake URL
func (m *MockObjectRepository) GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/%s?signed=1", objectPath), nil
}

// MockPublisher is a mock implementation of websocket.EventPublisher that
// captures published events
type MockPublisher struct {
	Events []websocket.Event
	mu     sync.Mutex
}

// NewMockPublisher creates a new MockPublisher
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// Publish records the event
func (m *MockPublisher) Publish(event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

// EventTypes returns the types of all published events in order
func (m *MockPublisher) EventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.Events))
	for _, e := range m.Events {
		types = append(types, e.Type)
	}
	return types
}

// MockNarrativeClient is a mock narrative generator for insight tests
type MockNarrativeClient struct {
	Narrative string
	Err       error
	Prompts   []string
}

// GenerateNarrative returns the configured narrative or error
func (m *MockNarrativeClient) GenerateNarrative(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Narrative, nil
}
