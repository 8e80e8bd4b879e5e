package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ledgerai/ledgerai-backend/internal/domain"
	"github.com/ledgerai/ledgerai-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
	importService      *service.ImportService
	receiptService     *service.ReceiptService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService, importService *service.ImportService, receiptService *service.ReceiptService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		importService:      importService,
		receiptService:     receiptService,
	}
}

// TransactionRequest represents the create/update transaction request body
type TransactionRequest struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Category    string `json:"category"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	HasReceipt  bool   `json:"hasReceipt"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// PaginatedTransactionsResponse represents paginated transactions in API responses
type PaginatedTransactionsResponse struct {
	Data       []TransactionResponse `json:"data"`
	Page       int32                 `json:"page"`
	PageSize   int32                 `json:"pageSize"`
	TotalItems int64                 `json:"totalItems"`
	TotalPages int32                 `json:"totalPages"`
}

// toTransactionResponse converts a domain transaction to its API shape
func toTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID.String(),
		Date:        t.Date.Format(dateLayout),
		Description: t.Description,
		Amount:      t.Amount.StringFixed(2),
		Type:        string(t.Kind),
		Category:    t.Category,
		HasReceipt:  t.ReceiptPath != nil,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// parsedTransaction holds the decoded fields of a create/update body
type parsedTransaction struct {
	date        time.Time
	description string
	amount      decimal.Decimal
	kind        domain.Kind
	category    string
}

// parseTransactionRequest binds and parses the shared request body. A
// non-empty detail means the body is invalid; the caller turns it into a
// validation response.
func parseTransactionRequest(c echo.Context) (parsedTransaction, string, []ValidationError) {
	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return parsedTransaction{}, "Invalid request body", nil
	}

	transactionDate, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return parsedTransaction{}, "Invalid date", []ValidationError{
			{Field: "date", Message: "Must be in YYYY-MM-DD format"},
		}
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return parsedTransaction{}, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		}
	}

	return parsedTransaction{
		date:        transactionDate,
		description: req.Description,
		amount:      amount,
		kind:        domain.Kind(req.Type),
		category:    req.Category,
	}, "", nil
}

// validationDetail maps service validation errors to problem detail text.
// ok is false when the error is not a validation error.
func validationDetail(err error) (string, []ValidationError, bool) {
	switch {
	case errors.Is(err, domain.ErrDescriptionRequired):
		return "Validation failed", []ValidationError{
			{Field: "description", Message: "Description is required"},
		}, true
	case errors.Is(err, domain.ErrDescriptionTooLong):
		return "Validation failed", []ValidationError{
			{Field: "description", Message: "Description must be 255 characters or less"},
		}, true
	case errors.Is(err, domain.ErrCategoryTooLong):
		return "Validation failed", []ValidationError{
			{Field: "category", Message: "Category must be 100 characters or less"},
		}, true
	case errors.Is(err, domain.ErrInvalidTransaction):
		return "Validation failed", []ValidationError{
			{Field: "transaction", Message: "Amount must be non-negative and type must be one of: income, expense"},
		}, true
	}
	return "", nil, false
}

// CreateTransaction creates a new income or expense transaction
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	in, detail, fieldErrors := parseTransactionRequest(c)
	if detail != "" {
		return NewValidationError(c, detail, fieldErrors)
	}

	transaction, err := h.transactionService.CreateTransaction(service.CreateTransactionInput{
		Date:        in.date,
		Description: in.description,
		Amount:      in.amount,
		Kind:        in.kind,
		Category:    in.category,
	})
	if err != nil {
		if detail, fieldErrors, ok := validationDetail(err); ok {
			return NewValidationError(c, detail, fieldErrors)
		}
		log.Error().Err(err).Msg("Failed to create transaction")
		return NewInternalError(c, "Failed to create transaction")
	}

	log.Info().Str("transaction_id", transaction.ID.String()).Str("description", transaction.Description).Msg("Transaction created")

	return c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// GetTransactions lists transactions with optional filters and pagination
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	filters := &domain.TransactionFilters{}

	if v := c.QueryParam("type"); v != "" {
		kind := domain.Kind(v)
		if !kind.Valid() {
			return NewValidationError(c, "Invalid type", []ValidationError{
				{Field: "type", Message: "Must be one of: income, expense"},
			})
		}
		filters.Kind = &kind
	}

	if v := c.QueryParam("category"); v != "" {
		category := v
		filters.Category = &category
	}

	if v := c.QueryParam("startDate"); v != "" {
		parsed, err := time.Parse(dateLayout, v)
		if err != nil {
			return NewValidationError(c, "Invalid startDate", []ValidationError{
				{Field: "startDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		filters.StartDate = &parsed
	}

	if v := c.QueryParam("endDate"); v != "" {
		parsed, err := time.Parse(dateLayout, v)
		if err != nil {
			return NewValidationError(c, "Invalid endDate", []ValidationError{
				{Field: "endDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		filters.EndDate = &parsed
	}

	if v := c.QueryParam("page"); v != "" {
		page, err := strconv.ParseInt(v, 10, 32)
		if err != nil || page < 1 {
			return NewValidationError(c, "Invalid page", []ValidationError{
				{Field: "page", Message: "Must be a positive integer"},
			})
		}
		filters.Page = int32(page)
	}

	if v := c.QueryParam("pageSize"); v != "" {
		pageSize, err := strconv.ParseInt(v, 10, 32)
		if err != nil || pageSize < 1 {
			return NewValidationError(c, "Invalid pageSize", []ValidationError{
				{Field: "pageSize", Message: "Must be a positive integer"},
			})
		}
		filters.PageSize = int32(pageSize)
	}

	result, err := h.transactionService.GetTransactions(filters)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list transactions")
		return NewInternalError(c, "Failed to list transactions")
	}

	data := make([]TransactionResponse, 0, len(result.Data))
	for _, t := range result.Data {
		data = append(data, toTransactionResponse(t))
	}

	return c.JSON(http.StatusOK, PaginatedTransactionsResponse{
		Data:       data,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	})
}

// GetTransaction retrieves a single transaction by ID
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.GetTransactionByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("transaction_id", id.String()).Msg("Failed to get transaction")
		return NewInternalError(c, "Failed to get transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// UpdateTransaction replaces a transaction's mutable fields
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	in, detail, fieldErrors := parseTransactionRequest(c)
	if detail != "" {
		return NewValidationError(c, detail, fieldErrors)
	}

	transaction, err := h.transactionService.UpdateTransaction(id, service.UpdateTransactionInput{
		Date:        in.date,
		Description: in.description,
		Amount:      in.amount,
		Kind:        in.kind,
		Category:    in.category,
	})
	if err != nil {
		if detail, fieldErrors, ok := validationDetail(err); ok {
			return NewValidationError(c, detail, fieldErrors)
		}
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("transaction_id", id.String()).Msg("Failed to update transaction")
		return NewInternalError(c, "Failed to update transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// DeleteTransaction removes a transaction
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.transactionService.DeleteTransaction(id); err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("transaction_id", id.String()).Msg("Failed to delete transaction")
		return NewInternalError(c, "Failed to delete transaction")
	}

	return c.NoContent(http.StatusNoContent)
}

// ImportTransactions imports transactions from an uploaded CSV file
func (h *TransactionHandler) ImportTransactions(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "Missing file", []ValidationError{
			{Field: "file", Message: "A CSV file is required"},
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return NewValidationError(c, "Could not read file", nil)
	}
	defer file.Close()

	result, err := h.importService.ImportCSV(file)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransaction) ||
			errors.Is(err, domain.ErrDescriptionRequired) ||
			errors.Is(err, domain.ErrDescriptionTooLong) ||
			errors.Is(err, domain.ErrCategoryTooLong) {
			return NewValidationError(c, err.Error(), nil)
		}
		log.Error().Err(err).Msg("Failed to import transactions")
		return NewInternalError(c, "Failed to import transactions")
	}

	return c.JSON(http.StatusCreated, result)
}

// UploadReceipt attaches a receipt file to a transaction
func (h *TransactionHandler) UploadReceipt(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if !h.receiptService.IsEnabled() {
		return NewServiceUnavailableError(c, "Receipt storage is not configured")
	}

	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		return NewValidationError(c, "Missing receipt", []ValidationError{
			{Field: "receipt", Message: "A receipt file is required"},
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return NewValidationError(c, "Could not read file", nil)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return NewValidationError(c, "Could not read file", nil)
	}

	metadata, err := h.receiptService.AttachReceipt(c.Request().Context(), id, data, fileHeader.Filename)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTransactionNotFound):
			return NewNotFoundError(c, "Transaction not found")
		case errors.Is(err, service.ErrReceiptTooLarge),
			errors.Is(err, service.ErrInvalidReceiptFormat),
			errors.Is(err, service.ErrReceiptImageTooSmall),
			errors.Is(err, service.ErrInvalidReceiptData):
			return NewValidationError(c, err.Error(), nil)
		}
		log.Error().Err(err).Str("transaction_id", id.String()).Msg("Failed to attach receipt")
		return NewInternalError(c, "Failed to attach receipt")
	}

	return c.JSON(http.StatusCreated, metadata)
}
