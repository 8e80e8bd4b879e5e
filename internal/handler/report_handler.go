package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/ledgerai/ledgerai-backend/internal/domain"
	"github.com/ledgerai/ledgerai-backend/internal/service"
	"github.com/ledgerai/ledgerai-backend/internal/util"
	"github.com/rs/zerolog/log"
)

// ReportHandler handles summary and report HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// DailyTotalResponse represents one day's volume in API responses
type DailyTotalResponse struct {
	Date  string `json:"date"`
	Total string `json:"total"`
}

// PeriodSummaryResponse represents a period summary in API responses
type PeriodSummaryResponse struct {
	TotalIncome            string               `json:"totalIncome"`
	TotalExpense           string               `json:"totalExpense"`
	TotalExpenseByCategory map[string]string    `json:"totalExpenseByCategory"`
	TotalByKind            map[string]string    `json:"totalByKind"`
	NetAmount              string               `json:"netAmount"`
	DailyTotals            []DailyTotalResponse `json:"dailyTotals"`
}

// PeriodReportResponse represents a full monthly report in API responses
type PeriodReportResponse struct {
	Year         int                   `json:"year"`
	Month        int                   `json:"month"`
	Summary      PeriodSummaryResponse `json:"summary"`
	Narrative    string                `json:"narrative,omitempty"`
	Transactions []TransactionResponse `json:"transactions"`
	GeneratedAt  string                `json:"generatedAt"`
}

// toSummaryResponse converts a domain summary to its API shape
func toSummaryResponse(s *domain.PeriodSummary) PeriodSummaryResponse {
	byCategory := make(map[string]string, len(s.TotalExpenseByCategory))
	for category, total := range s.TotalExpenseByCategory {
		byCategory[category] = total.StringFixed(2)
	}

	byKind := make(map[string]string, len(s.TotalByKind))
	for kind, total := range s.TotalByKind {
		byKind[string(kind)] = total.StringFixed(2)
	}

	dailyTotals := make([]DailyTotalResponse, 0, len(s.DailyTotals))
	for _, dt := range s.DailyTotals {
		dailyTotals = append(dailyTotals, DailyTotalResponse{
			Date:  dt.Date.Format(dateLayout),
			Total: dt.Total.StringFixed(2),
		})
	}

	return PeriodSummaryResponse{
		TotalIncome:            s.TotalIncome.StringFixed(2),
		TotalExpense:           s.TotalExpense.StringFixed(2),
		TotalExpenseByCategory: byCategory,
		TotalByKind:            byKind,
		NetAmount:              s.NetAmount.StringFixed(2),
		DailyTotals:            dailyTotals,
	}
}

// parsePeriodParams parses and validates the :year/:month path parameters.
// A non-empty detail means the period is invalid; the caller turns it into a
// validation response.
func parsePeriodParams(c echo.Context) (int, time.Month, string, []ValidationError) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return 0, 0, "Invalid year", []ValidationError{
			{Field: "year", Message: "Must be an integer"},
		}
	}

	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		return 0, 0, "Invalid month", []ValidationError{
			{Field: "month", Message: "Must be an integer"},
		}
	}

	if !util.ValidPeriod(year, month) {
		return 0, 0, "Invalid period", []ValidationError{
			{Field: "period", Message: "Year must be 2000-2100 and month 1-12"},
		}
	}

	return year, time.Month(month), "", nil
}

// GetSummary returns the aggregate summary for one calendar month
func (h *ReportHandler) GetSummary(c echo.Context) error {
	year, month, detail, fieldErrors := parsePeriodParams(c)
	if detail != "" {
		return NewValidationError(c, detail, fieldErrors)
	}

	summary, err := h.reportService.GetPeriodSummary(year, month)
	if err != nil {
		log.Error().Err(err).Int("year", year).Int("month", int(month)).Msg("Failed to compute summary")
		return NewInternalError(c, "Failed to compute summary")
	}

	return c.JSON(http.StatusOK, toSummaryResponse(summary))
}

// GetReport returns the full report for one calendar month
func (h *ReportHandler) GetReport(c echo.Context) error {
	year, month, detail, fieldErrors := parsePeriodParams(c)
	if detail != "" {
		return NewValidationError(c, detail, fieldErrors)
	}

	report, err := h.reportService.GetPeriodReport(c.Request().Context(), year, month)
	if err != nil {
		log.Error().Err(err).Int("year", year).Int("month", int(month)).Msg("Failed to build report")
		return NewInternalError(c, "Failed to build report")
	}

	transactions := make([]TransactionResponse, 0, len(report.Transactions))
	for i := range report.Transactions {
		transactions = append(transactions, toTransactionResponse(&report.Transactions[i]))
	}

	return c.JSON(http.StatusOK, PeriodReportResponse{
		Year:         report.Year,
		Month:        int(report.Month),
		Summary:      toSummaryResponse(report.Summary),
		Narrative:    report.Narrative,
		Transactions: transactions,
		GeneratedAt:  report.GeneratedAt.UTC().Format(time.RFC3339),
	})
}

// GenerateArtifacts renders and uploads the report document and data export,
// returning presigned download URLs
func (h *ReportHandler) GenerateArtifacts(c echo.Context) error {
	year, month, detail, fieldErrors := parsePeriodParams(c)
	if detail != "" {
		return NewValidationError(c, detail, fieldErrors)
	}

	artifacts, err := h.reportService.GenerateArtifacts(c.Request().Context(), year, month)
	if err != nil {
		if errors.Is(err, domain.ErrArtifactNotAvailable) {
			return NewServiceUnavailableError(c, "Report storage is not configured")
		}
		log.Error().Err(err).Int("year", year).Int("month", int(month)).Msg("Failed to generate artifacts")
		return NewInternalError(c, "Failed to generate artifacts")
	}

	return c.JSON(http.StatusCreated, artifacts)
}
