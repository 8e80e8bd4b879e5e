package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ledgerai/ledgerai-backend/internal/domain"
	"github.com/ledgerai/ledgerai-backend/internal/service"
	"github.com/ledgerai/ledgerai-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func newTransactionHandler(repo *testutil.MockTransactionRepository) *TransactionHandler {
	transactionService := service.NewTransactionService(repo)
	importService := service.NewImportService(repo)
	receiptService := service.NewReceiptService(repo, nil)
	return NewTransactionHandler(transactionService, importService, receiptService)
}

func TestCreateTransactionHandler_Success(t *testing.T) {
	e := echo.New()
	repo := testutil.NewMockTransactionRepository()
	h := newTransactionHandler(repo)

	body := `{"date":"2025-03-05","description":"Office rent","amount":"1200.00","type":"expense","category":"Rent"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Description != "Office rent" {
		t.Errorf("Expected description 'Office rent', got %q", resp.Description)
	}
	if resp.Amount != "1200.00" {
		t.Errorf("Expected amount '1200.00', got %q", resp.Amount)
	}
	if resp.Date != "2025-03-05" {
		t.Errorf("Expected date '2025-03-05', got %q", resp.Date)
	}
	if resp.ID == "" {
		t.Error("Expected an ID in the response")
	}
}

func TestCreateTransactionHandler_InvalidAmount(t *testing.T) {
	e := echo.New()
	h := newTransactionHandler(testutil.NewMockTransactionRepository())

	body := `{"date":"2025-03-05","description":"Office rent","amount":"abc","type":"expense"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	// The body must be a single problem document
	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to decode problem details: %v", err)
	}
	if problem.Type != ErrorTypeValidation {
		t.Errorf("Expected validation error type, got %q", problem.Type)
	}
}

func TestCreateTransactionHandler_NegativeAmount(t *testing.T) {
	e := echo.New()
	h := newTransactionHandler(testutil.NewMockTransactionRepository())

	body := `{"date":"2025-03-05","description":"Office rent","amount":"-10.00","type":"expense"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to decode problem details: %v", err)
	}
	if problem.Type != ErrorTypeValidation {
		t.Errorf("Expected validation error type, got %q", problem.Type)
	}
}

func TestGetTransactionHandler_NotFound(t *testing.T) {
	e := echo.New()
	h := newTransactionHandler(testutil.NewMockTransactionRepository())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/transactions/:id")
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	if err := h.GetTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestGetTransactionsHandler_FilterByType(t *testing.T) {
	e := echo.New()
	repo := testutil.NewMockTransactionRepository()
	repo.AddTransaction(&domain.Transaction{
		Date: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), Description: "Income",
		Amount: decimal.NewFromInt(100), Kind: domain.KindIncome,
	})
	repo.AddTransaction(&domain.Transaction{
		Date: time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC), Description: "Expense",
		Amount: decimal.NewFromInt(50), Kind: domain.KindExpense,
	})
	h := newTransactionHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/?type=income", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.GetTransactions(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp PaginatedTransactionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Type != "income" {
		t.Errorf("Expected 1 income transaction, got %+v", resp.Data)
	}
}

func TestDeleteTransactionHandler(t *testing.T) {
	e := echo.New()
	repo := testutil.NewMockTransactionRepository()
	existing := &domain.Transaction{
		Date: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), Description: "Income",
		Amount: decimal.NewFromInt(100), Kind: domain.KindIncome,
	}
	repo.AddTransaction(existing)
	h := newTransactionHandler(repo)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/transactions/:id")
	c.SetParamNames("id")
	c.SetParamValues(existing.ID.String())

	if err := h.DeleteTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
}

// multipartBody builds a multipart request body with a single file field
func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	writer.Close()
	return &buf, writer.FormDataContentType()
}

func TestImportTransactionsHandler_Success(t *testing.T) {
	e := echo.New()
	repo := testutil.NewMockTransactionRepository()
	h := newTransactionHandler(repo)

	csv := "Date,Description,Amount,Type,Category\n2025-03-01,Client payment,1000.00,income,Consulting\n"
	body, contentType := multipartBody(t, "file", "transactions.csv", []byte(csv))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/import", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ImportTransactions(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var result service.ImportResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result.Imported != 1 {
		t.Errorf("Expected 1 imported, got %d", result.Imported)
	}
}

func TestImportTransactionsHandler_InvalidRow(t *testing.T) {
	e := echo.New()
	repo := testutil.NewMockTransactionRepository()
	h := newTransactionHandler(repo)

	csv := "Date,Description,Amount,Type,Category\n2025-03-01,Client payment,-1.00,income,Consulting\n"
	body, contentType := multipartBody(t, "file", "transactions.csv", []byte(csv))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/import", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ImportTransactions(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
	if len(repo.Transactions) != 0 {
		t.Errorf("Expected nothing stored, got %d", len(repo.Transactions))
	}
}

func TestUploadReceiptHandler_StorageDisabled(t *testing.T) {
	e := echo.New()
	repo := testutil.NewMockTransactionRepository()
	existing := &domain.Transaction{
		Date: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), Description: "Supplies",
		Amount: decimal.NewFromInt(45), Kind: domain.KindExpense,
	}
	repo.AddTransaction(existing)
	h := newTransactionHandler(repo) // receipt storage not configured

	body, contentType := multipartBody(t, "receipt", "receipt.png", []byte("fake"))
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/transactions/:id/receipt")
	c.SetParamNames("id")
	c.SetParamValues(existing.ID.String())

	if err := h.UploadReceipt(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", rec.Code)
	}
}
