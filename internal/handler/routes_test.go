package handler

import (
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/ledgerai/ledgerai-backend/internal/websocket"
)

func TestRegisterRoutes(t *testing.T) {
	e := echo.New()
	RegisterRoutes(e,
		NewTransactionHandler(nil, nil, nil),
		NewReportHandler(nil),
		NewDashboardHandler(nil),
		NewWebSocketHandler(websocket.NewHub(), nil),
	)

	registered := make(map[string]bool)
	for _, r := range e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	want := []string{
		"POST /api/v1/transactions",
		"GET /api/v1/transactions",
		"POST /api/v1/transactions/import",
		"GET /api/v1/transactions/:id",
		"PUT /api/v1/transactions/:id",
		"DELETE /api/v1/transactions/:id",
		"POST /api/v1/transactions/:id/receipt",
		"GET /api/v1/summaries/:year/:month",
		"GET /api/v1/reports/:year/:month",
		"POST /api/v1/reports/:year/:month/artifacts",
		"GET /api/v1/dashboard/overview",
		"GET /api/v1/ws",
	}
	for _, route := range want {
		if !registered[route] {
			t.Errorf("Expected route %q to be registered", route)
		}
	}
}
