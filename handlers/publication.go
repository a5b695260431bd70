package handlers

import (
	"net/http"

	publicationRepo "suarec/database/repository/publication"
	"suarec/middleware"
	"suarec/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PublicationHandler exposes the publication catalog contracts are opened against.
type PublicationHandler struct {
	Publications publicationRepo.PublicationRepository
}

// CreatePublicationHandler handles POST /suarec/publications.
func (h *PublicationHandler) CreatePublicationHandler(c *gin.Context) {
	var req struct {
		Title       string   `json:"title" binding:"required"`
		Description string   `json:"description"`
		Category    string   `json:"category" binding:"required"`
		Modality    string   `json:"modality"`
		Price       *float64 `json:"price"`
		PriceUnit   string   `json:"price_unit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	category := models.PublicationCategory(req.Category)
	if !models.ValidPublicationCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "categoría inválida"})
		return
	}
	if req.PriceUnit != "" && !models.ValidPriceUnit(models.PriceUnit(req.PriceUnit)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unidad de precio inválida"})
		return
	}

	p := &models.Publication{
		ID:          uuid.New().String(),
		ProviderID:  middleware.UserID(c),
		Title:       req.Title,
		Description: req.Description,
		Category:    category,
		Modality:    req.Modality,
		Price:       req.Price,
		PriceUnit:   models.PriceUnit(req.PriceUnit),
	}
	if err := h.Publications.Create(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, p)
}

// GetPublicationHandler handles GET /suarec/publications/:id.
func (h *PublicationHandler) GetPublicationHandler(c *gin.Context) {
	p, err := h.Publications.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "publicación no encontrada"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// MyPublicationsHandler handles GET /suarec/publications/mine.
func (h *PublicationHandler) MyPublicationsHandler(c *gin.Context) {
	pubs, err := h.Publications.ListByProvider(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"publications": pubs})
}
