package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgerai/ledgerai-backend/internal/domain"
	"github.com/ledgerai/ledgerai-backend/internal/util"
	"github.com/shopspring/decimal"
)

// transactionColumns is the select list shared by every query that returns
// full rows. Amount is cast to text so it round-trips through
// decimal.NewFromString without binary numeric conversion.
const transactionColumns = `id, transaction_date, description, amount::text, kind, category, receipt_path, created_at, updated_at`

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create inserts a new transaction. The store assigns the identifier.
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()

	id := uuid.New()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO transactions (id, transaction_date, description, amount, kind, category)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+transactionColumns,
		id, transaction.Date, transaction.Description, transaction.Amount.String(),
		string(transaction.Kind), transaction.Category)

	return scanTransaction(row)
}

// CreateBatch inserts all transactions in a single database transaction.
// Either every row is stored or none is.
func (r *TransactionRepository) CreateBatch(transactions []*domain.Transaction) (int, error) {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, t := range transactions {
		batch.Queue(`
			INSERT INTO transactions (id, transaction_date, description, amount, kind, category)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New(), t.Date, t.Description, t.Amount.String(), string(t.Kind), t.Category)
	}

	results := tx.SendBatch(ctx, batch)
	for range transactions {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return 0, fmt.Errorf("batch insert: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return len(transactions), nil
}

// GetByID retrieves a transaction by its ID
func (r *TransactionRepository) GetByID(id uuid.UUID) (*domain.Transaction, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = $1`, id)

	transaction, err := scanTransaction(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// List retrieves transactions with optional filters and pagination,
// newest first.
func (r *TransactionRepository) List(filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	ctx := context.Background()

	page := int32(1)
	pageSize := int32(domain.DefaultPageSize)
	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PageSize > 0 {
			pageSize = filters.PageSize
			if pageSize > domain.MaxPageSize {
				pageSize = domain.MaxPageSize
			}
		}
	}
	offset := (page - 1) * pageSize

	where := `WHERE ($1::text IS NULL OR kind = $1)
		AND ($2::text IS NULL OR category = $2)
		AND ($3::date IS NULL OR transaction_date >= $3)
		AND ($4::date IS NULL OR transaction_date <= $4)`

	var kind, category *string
	var startDate, endDate *time.Time
	if filters != nil {
		if filters.Kind != nil {
			k := string(*filters.Kind)
			kind = &k
		}
		category = filters.Category
		startDate = filters.StartDate
		endDate = filters.EndDate
	}

	var totalItems int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions `+where,
		kind, category, startDate, endDate).Scan(&totalItems); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions `+where+`
		ORDER BY transaction_date DESC, created_at DESC
		LIMIT $5 OFFSET $6`,
		kind, category, startDate, endDate, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.Transaction, 0, pageSize)
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalPages := int32(totalItems / int64(pageSize))
	if totalItems%int64(pageSize) > 0 {
		totalPages++
	}

	return &domain.PaginatedTransactions{
		Data:       result,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// ListByPeriod retrieves all transactions dated within the given calendar
// month, oldest first.
func (r *TransactionRepository) ListByPeriod(year int, month time.Month) ([]domain.Transaction, error) {
	ctx := context.Background()
	start, end := util.PeriodBounds(year, month)

	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE transaction_date >= $1 AND transaction_date <= $2
		ORDER BY transaction_date ASC, created_at ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.Transaction, 0)
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *transaction)
	}
	return result, rows.Err()
}

// LatestDate returns the most recent transaction date in the store.
// Returns domain.ErrNoTransactions when the store is empty.
func (r *TransactionRepository) LatestDate() (time.Time, error) {
	ctx := context.Background()

	var latest *time.Time
	if err := r.pool.QueryRow(ctx,
		`SELECT MAX(transaction_date) FROM transactions`).Scan(&latest); err != nil {
		return time.Time{}, err
	}
	if latest == nil {
		return time.Time{}, domain.ErrNoTransactions
	}
	return *latest, nil
}

// Update replaces a transaction's mutable fields
func (r *TransactionRepository) Update(id uuid.UUID, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		UPDATE transactions
		SET transaction_date = $2, description = $3, amount = $4, kind = $5, category = $6, updated_at = now()
		WHERE id = $1
		RETURNING `+transactionColumns,
		id, data.Date, data.Description, data.Amount.String(), string(data.Kind), data.Category)

	transaction, err := scanTransaction(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// Delete removes a transaction from the store
func (r *TransactionRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// SetReceiptPath attaches a stored receipt object path to a transaction
func (r *TransactionRepository) SetReceiptPath(id uuid.UUID, receiptPath string) (*domain.Transaction, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		UPDATE transactions
		SET receipt_path = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+transactionColumns,
		id, receiptPath)

	transaction, err := scanTransaction(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// scanTransaction reads one row into a domain.Transaction
func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t           domain.Transaction
		kind        string
		amount      string
		receiptPath *string
	)
	if err := row.Scan(&t.ID, &t.Date, &t.Description, &amount, &kind, &t.Category, &receiptPath, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid stored amount %q: %w", amount, err)
	}
	t.Amount = parsed
	t.Kind = domain.Kind(kind)
	t.ReceiptPath = receiptPath
	return &t, nil
}
