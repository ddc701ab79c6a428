package router

import (
	"github.com/gin-gonic/gin"

	"gridbill/internal/config"
	"gridbill/internal/handler"
	"gridbill/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	billH *handler.BillHandler,
	historyH *handler.HistoryHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health check
	r.GET("/healthz", healthH.Health)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.ServiceAuth(cfg.Auth))

	// Bill extraction
	bills := v1.Group("/bills")
	bills.POST("/extract", billH.Extract)

	// Imported bill history
	if historyH != nil {
		hist := v1.Group("/history")
		hist.GET("/accounts", historyH.Accounts)
		hist.GET("/accounts/:account/bills", historyH.MonthlyBills)
	}

	return r
}
