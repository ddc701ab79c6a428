package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gridbill/internal/service"
)

// HistoryHandler handles bill-history endpoints.
type HistoryHandler struct {
	historyService service.HistoryService
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(historyService service.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// Accounts handles GET /api/v1/history/accounts
func (h *HistoryHandler) Accounts(c *gin.Context) {
	accounts, err := h.historyService.Accounts(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"accounts": accounts})
}

// MonthlyBills handles GET /api/v1/history/accounts/:account/bills
func (h *HistoryHandler) MonthlyBills(c *gin.Context) {
	account := c.Param("account")
	if account == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_ACCOUNT", "account number is required")
		return
	}

	bills, err := h.historyService.MonthlyBills(c.Request.Context(), account)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"account_number": account,
		"bills":          bills,
	})
}
