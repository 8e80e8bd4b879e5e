package handler

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, transactionHandler *TransactionHandler, reportHandler *ReportHandler, dashboardHandler *DashboardHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Transaction routes
	transactions := api.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.POST("/import", transactionHandler.ImportTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)
	transactions.POST("/:id/receipt", transactionHandler.UploadReceipt)

	// Summary routes
	api.GET("/summaries/:year/:month", reportHandler.GetSummary)

	// Report routes
	reports := api.Group("/reports")
	reports.GET("/:year/:month", reportHandler.GetReport)
	reports.POST("/:year/:month/artifacts", reportHandler.GenerateArtifacts)

	// Dashboard routes
	api.GET("/dashboard/overview", dashboardHandler.GetOverview)

	// WebSocket endpoint
	api.GET("/ws", wsHandler.HandleWS)
}
