package handlers

import (
	"errors"
	"net/http"

	"suarec/middleware"
	"suarec/services/contract"
	"suarec/services/otp"

	"github.com/gin-gonic/gin"
)

// OTPHandler exposes the completion-code flow.
type OTPHandler struct {
	OTPService otp.OTPService
}

// GenerateOTPHandler handles POST /suarec/contracts/:id/otp/generate.
func (h *OTPHandler) GenerateOTPHandler(c *gin.Context) {
	contractID := c.Param("id")
	if err := h.OTPService.Generate(c.Request.Context(), contractID, middleware.UserID(c)); err != nil {
		var ce *contract.ContractError
		if errors.As(err, &ce) {
			c.JSON(statusForContractError(ce), gin.H{"error": ce.Message, "code": ce.Code})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "código de verificación enviado"})
}

// VerifyOTPHandler handles POST /suarec/contracts/:id/otp/verify.
func (h *OTPHandler) VerifyOTPHandler(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := h.OTPService.Verify(c.Request.Context(), c.Param("id"), middleware.UserID(c), req.Code)
	if err != nil {
		var ce *contract.ContractError
		if errors.As(err, &ce) {
			c.JSON(statusForContractError(ce), gin.H{"error": ce.Message, "code": ce.Code})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ResendOTPHandler handles POST /suarec/contracts/:id/otp/resend.
func (h *OTPHandler) ResendOTPHandler(c *gin.Context) {
	if err := h.OTPService.Resend(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		var ce *contract.ContractError
		if errors.As(err, &ce) {
			c.JSON(statusForContractError(ce), gin.H{"error": ce.Message, "code": ce.Code})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "código de verificación reenviado"})
}
