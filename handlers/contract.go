package handlers

import (
	"errors"
	"net/http"

	"suarec/middleware"
	"suarec/models"
	"suarec/services/contract"
	"suarec/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContractHandler exposes the negotiation workflow over HTTP.
type ContractHandler struct {
	ContractService contract.ContractService
}

// statusForContractError maps a typed workflow error to an HTTP status.
func statusForContractError(err *contract.ContractError) int {
	switch err.Code {
	case "invalidPrice", "invalidPriceUnit", "invalidAction", "publicationWithoutPrice":
		return http.StatusBadRequest
	case "notParty", "ownBid", "ownPublication", "balanceBlocked":
		return http.StatusForbidden
	case "notNegotiable", "notPending", "notAccepted", "notDelivered", "terminalState":
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondContractError writes the appropriate response for a workflow failure.
func respondContractError(c *gin.Context, err error) {
	var ce *contract.ContractError
	if errors.As(err, &ce) {
		c.JSON(statusForContractError(ce), gin.H{"error": ce.Message, "code": ce.Code})
		return
	}
	utils.GetLogger().Error("contract operation failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// CreateContractHandler handles POST /suarec/contracts.
func (h *ContractHandler) CreateContractHandler(c *gin.Context) {
	var req struct {
		PublicationID string  `json:"publication_id" binding:"required"`
		PriceMode     string  `json:"price_mode" binding:"required"`
		Price         float64 `json:"price"`
		PriceUnit     string  `json:"price_unit" binding:"required"`
		PaymentMethod string  `json:"payment_method"`
		Message       string  `json:"message"`
		RequestedDate string  `json:"requested_date"`
		RequestedTime string  `json:"requested_time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	created, err := h.ContractService.CreateContract(contract.CreateContractInput{
		PublicationID: req.PublicationID,
		ClientID:      middleware.UserID(c),
		PriceMode:     req.PriceMode,
		Price:         req.Price,
		PriceUnit:     models.PriceUnit(req.PriceUnit),
		PaymentMethod: req.PaymentMethod,
		Message:       req.Message,
		RequestedDate: req.RequestedDate,
		RequestedTime: req.RequestedTime,
	})
	if err != nil {
		respondContractError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// SubmitBidHandler handles POST /suarec/contracts/bid.
func (h *ContractHandler) SubmitBidHandler(c *gin.Context) {
	var req struct {
		ContractID string  `json:"contract_id" binding:"required"`
		Amount     float64 `json:"amount" binding:"required"`
		Message    string  `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	updated, err := h.ContractService.SubmitBid(contract.SubmitBidInput{
		ContractID: req.ContractID,
		BidderID:   middleware.UserID(c),
		Amount:     req.Amount,
		Message:    req.Message,
	})
	if err != nil {
		respondContractError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// AcceptBidHandler handles POST /suarec/contracts/accept-bid.
func (h *ContractHandler) AcceptBidHandler(c *gin.Context) {
	var req struct {
		BidID string `json:"bid_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	updated, err := h.ContractService.AcceptBid(req.BidID, middleware.UserID(c))
	if err != nil {
		respondContractError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// ProviderResponseHandler handles POST /suarec/contracts/provider-response.
func (h *ContractHandler) ProviderResponseHandler(c *gin.Context) {
	var req struct {
		ContractID   string   `json:"contract_id" binding:"required"`
		Action       string   `json:"action" binding:"required"`
		CounterOffer *float64 `json:"counter_offer"`
		ProposedDate string   `json:"proposed_date"`
		ProposedTime string   `json:"proposed_time"`
		Message      string   `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	updated, err := h.ContractService.ProviderResponse(contract.ProviderResponseInput{
		ContractID:   req.ContractID,
		ProviderID:   middleware.UserID(c),
		Action:       req.Action,
		CounterOffer: req.CounterOffer,
		ProposedDate: req.ProposedDate,
		ProposedTime: req.ProposedTime,
		Message:      req.Message,
	})
	if err != nil {
		respondContractError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// MyContractsHandler handles GET /suarec/contracts/my-contracts.
func (h *ContractHandler) MyContractsHandler(c *gin.Context) {
	asClient, asProvider, err := h.ContractService.MyContracts(middleware.UserID(c))
	if err != nil {
		respondContractError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"asClient":   asClient,
		"asProvider": asProvider,
	})
}

// GetContractHandler handles GET /suarec/contracts/:id.
func (h *ContractHandler) GetContractHandler(c *gin.Context) {
	found, err := h.ContractService.GetContract(c.Param("id"), middleware.UserID(c))
	if err != nil {
		var ce *contract.ContractError
		if !errors.As(err, &ce) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		respondContractError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

// CancelContractHandler handles DELETE /suarec/contracts/:id/cancel.
func (h *ContractHandler) CancelContractHandler(c *gin.Context) {
	updated, err := h.ContractService.CancelContract(c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondContractError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// MarkDeliveredHandler handles POST /suarec/contracts/:id/mark-delivered.
func (h *ContractHandler) MarkDeliveredHandler(c *gin.Context) {
	updated, err := h.ContractService.MarkDelivered(c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondContractError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
