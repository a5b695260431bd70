package handlers

import (
	"net/http"

	"suarec/middleware"
	"suarec/services/balance"
	"suarec/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BalanceHandler serves the ledger read model.
type BalanceHandler struct {
	BalanceService balance.BalanceService
}

// CurrentBalanceHandler handles GET /suarec/balance/current.
func (h *BalanceHandler) CurrentBalanceHandler(c *gin.Context) {
	snap, err := h.BalanceService.Current(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		utils.GetLogger().Error("failed to load balance", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no se pudo consultar el saldo"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// BalanceTransactionsHandler handles GET /suarec/balance/transactions.
func (h *BalanceHandler) BalanceTransactionsHandler(c *gin.Context) {
	txs, err := h.BalanceService.Transactions(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		utils.GetLogger().Error("failed to list balance transactions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no se pudo consultar los movimientos"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}
