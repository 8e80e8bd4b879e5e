package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ledgerai/ledgerai-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// DashboardHandler handles dashboard HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// DashboardOverviewResponse represents the dashboard overview in API responses
type DashboardOverviewResponse struct {
	Year             int                   `json:"year"`
	Month            int                   `json:"month"`
	TransactionCount int                   `json:"transactionCount"`
	Summary          PeriodSummaryResponse `json:"summary"`
	Narrative        string                `json:"narrative,omitempty"`
}

// GetOverview returns the summary of the most recent month with activity
func (h *DashboardHandler) GetOverview(c echo.Context) error {
	overview, err := h.dashboardService.GetOverview(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to build dashboard overview")
		return NewInternalError(c, "Failed to build dashboard overview")
	}

	return c.JSON(http.StatusOK, DashboardOverviewResponse{
		Year:             overview.Year,
		Month:            int(overview.Month),
		TransactionCount: overview.TransactionCount,
		Summary:          toSummaryResponse(overview.Summary),
		Narrative:        overview.Narrative,
	})
}
