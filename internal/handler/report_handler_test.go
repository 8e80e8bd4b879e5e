package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/ledgerai/ledgerai-backend/internal/domain"
	"github.com/ledgerai/ledgerai-backend/internal/service"
	"github.com/ledgerai/ledgerai-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func seedMarch(repo *testutil.MockTransactionRepository) {
	repo.AddTransaction(&domain.Transaction{
		Date: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), Description: "Client payment",
		Amount: decimal.NewFromInt(9200), Kind: domain.KindIncome, Category: "Consulting",
	})
	repo.AddTransaction(&domain.Transaction{
		Date: time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), Description: "Payroll",
		Amount: decimal.NewFromInt(8200), Kind: domain.KindExpense, Category: "Payroll",
	})
	repo.AddTransaction(&domain.Transaction{
		Date: time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), Description: "Electricity",
		Amount: decimal.NewFromInt(326), Kind: domain.KindExpense, Category: "Utilities",
	})
}

func periodContext(e *echo.Echo, method, year, month string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("year", "month")
	c.SetParamValues(year, month)
	return c, rec
}

func TestGetSummaryHandler(t *testing.T) {
	e := echo.New()
	repo := testutil.NewMockTransactionRepository()
	seedMarch(repo)
	h := NewReportHandler(service.NewReportService(repo, nil, service.NewInsightService(nil)))

	c, rec := periodContext(e, http.MethodGet, "2025", "3")
	if err := h.GetSummary(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp PeriodSummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.TotalIncome != "9200.00" {
		t.Errorf("Expected totalIncome 9200.00, got %q", resp.TotalIncome)
	}
	if resp.TotalExpense != "8526.00" {
		t.Errorf("Expected totalExpense 8526.00, got %q", resp.TotalExpense)
	}
	if resp.NetAmount != "674.00" {
		t.Errorf("Expected netAmount 674.00, got %q", resp.NetAmount)
	}
	if resp.TotalExpenseByCategory["Payroll"] != "8200.00" {
		t.Errorf("Expected Payroll 8200.00, got %q", resp.TotalExpenseByCategory["Payroll"])
	}
	if len(resp.DailyTotals) != 3 {
		t.Errorf("Expected 3 daily totals, got %d", len(resp.DailyTotals))
	}
}

func TestGetSummaryHandler_InvalidMonth(t *testing.T) {
	e := echo.New()
	h := NewReportHandler(service.NewReportService(testutil.NewMockTransactionRepository(), nil, nil))

	c, rec := periodContext(e, http.MethodGet, "2025", "13")
	if err := h.GetSummary(c); err != nil {
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

func TestGetReportHandler(t *testing.T) {
	e := echo.New()
	repo := testutil.NewMockTransactionRepository()
	seedMarch(repo)
	insights := service.NewInsightService(&testutil.MockNarrativeClient{Narrative: "March went well."})
	h := NewReportHandler(service.NewReportService(repo, nil, insights))

	c, rec := periodContext(e, http.MethodGet, "2025", "3")
	if err := h.GetReport(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp PeriodReportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Year != 2025 || resp.Month != 3 {
		t.Errorf("Expected period 2025-3, got %d-%d", resp.Year, resp.Month)
	}
	if len(resp.Transactions) != 3 {
		t.Errorf("Expected 3 transactions, got %d", len(resp.Transactions))
	}
	if resp.Narrative != "March went well." {
		t.Errorf("Expected narrative, got %q", resp.Narrative)
	}
	if resp.GeneratedAt == "" {
		t.Error("Expected generatedAt to be set")
	}
}

func TestGenerateArtifactsHandler(t *testing.T) {
	e := echo.New()
	repo := testutil.NewMockTransactionRepository()
	seedMarch(repo)
	objects := testutil.NewMockObjectRepository()
	h := NewReportHandler(service.NewReportService(repo, objects, service.NewInsightService(nil)))

	c, rec := periodContext(e, http.MethodPost, "2025", "3")
	if err := h.GenerateArtifacts(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var artifacts domain.ReportArtifacts
	if err := json.Unmarshal(rec.Body.Bytes(), &artifacts); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if artifacts.ReportURL == "" || artifacts.DataExportURL == "" {
		t.Error("Expected both artifact URLs to be set")
	}
}

func TestGenerateArtifactsHandler_StorageDisabled(t *testing.T) {
	e := echo.New()
	h := NewReportHandler(service.NewReportService(testutil.NewMockTransactionRepository(), nil, nil))

	c, rec := periodContext(e, http.MethodPost, "2025", "3")
	if err := h.GenerateArtifacts(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", rec.Code)
	}
}
