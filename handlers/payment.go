package handlers

import (
	"errors"
	"net/http"

	"suarec/middleware"
	"suarec/models"
	"suarec/services/payment"
	"suarec/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler exposes the gateway checkout handoff and its webhook.
type PaymentHandler struct {
	PaymentService payment.PaymentService
}

// statusForPaymentError maps a typed checkout error to an HTTP status.
func statusForPaymentError(err *payment.PaymentError) int {
	switch err.Code {
	case "consentRequired":
		return http.StatusBadRequest
	case "notClient":
		return http.StatusForbidden
	case "notPayable":
		return http.StatusConflict
	case "badSignature":
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// MerchantInfoHandler handles GET /suarec/payments/merchant-info.
func (h *PaymentHandler) MerchantInfoHandler(c *gin.Context) {
	info, err := h.PaymentService.MerchantInfo(c.Request.Context())
	if err != nil {
		utils.GetLogger().Error("failed to fetch merchant info", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "no se pudo consultar la pasarela de pagos"})
		return
	}
	c.JSON(http.StatusOK, info)
}

// InitiatePaymentHandler handles POST /suarec/payments.
func (h *PaymentHandler) InitiatePaymentHandler(c *gin.Context) {
	var req models.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.PaymentService.Initiate(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		var pe *payment.PaymentError
		if errors.As(err, &pe) {
			c.JSON(statusForPaymentError(pe), gin.H{"error": pe.Message, "code": pe.Code})
			return
		}
		utils.GetLogger().Error("payment initiation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

// GatewayWebhookHandler handles POST /suarec/payments/webhook. The route is
// unauthenticated; the event checksum is the only accepted proof of origin.
func (h *PaymentHandler) GatewayWebhookHandler(c *gin.Context) {
	var ev models.GatewayEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event payload"})
		return
	}

	if err := h.PaymentService.HandleGatewayEvent(c.Request.Context(), ev); err != nil {
		var pe *payment.PaymentError
		if errors.As(err, &pe) {
			c.JSON(statusForPaymentError(pe), gin.H{"error": pe.Message, "code": pe.Code})
			return
		}
		utils.GetLogger().Error("gateway event processing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "event processing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
