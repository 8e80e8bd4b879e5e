package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Valid reports whether k is one of the known transaction kinds.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Transaction is one recorded financial event. Amount is always a
// non-negative magnitude; the direction of the cash flow is carried by Kind,
// never by the sign of Amount.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        Kind            `json:"kind"`
	Category    string          `json:"category,omitempty"`
	ReceiptPath *string         `json:"receiptPath,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Validate checks the record invariants at the boundary where external data
// enters the core. Malformed-record failures wrap ErrInvalidTransaction so
// callers can match the whole class with errors.Is.
func (t *Transaction) Validate() error {
	if t.Amount.IsNegative() {
		return fmt.Errorf("%w: amount %s is negative", ErrInvalidTransaction, t.Amount.String())
	}
	if !t.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidTransaction, t.Kind)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrDescriptionRequired
	}
	if len(t.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if len(t.Category) > MaxCategoryLength {
		return ErrCategoryTooLong
	}
	return nil
}

type TransactionFilters struct {
	Kind      *Kind
	Category  *string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int32
	PageSize  int32
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PaginatedTransactions struct {
	Data       []*Transaction `json:"data"`
	Page       int32          `json:"page"`
	PageSize   int32          `json:"pageSize"`
	TotalItems int64          `json:"totalItems"`
	TotalPages int32          `json:"totalPages"`
}

// UpdateTransactionData carries the mutable fields of a transaction.
type UpdateTransactionData struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Kind        Kind
	Category    string
}

type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	CreateBatch(transactions []*Transaction) (int, error)
	GetByID(id uuid.UUID) (*Transaction, error)
	List(filters *TransactionFilters) (*PaginatedTransactions, error)
	ListByPeriod(year int, month time.Month) ([]Transaction, error)
	LatestDate() (time.Time, error)
	Update(id uuid.UUID, data *UpdateTransactionData) (*Transaction, error)
	Delete(id uuid.UUID) error
	SetReceiptPath(id uuid.UUID, receiptPath string) (*Transaction, error)
}
