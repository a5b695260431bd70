package handlers

import (
	"net/http"

	"suarec/services/user"

	"github.com/gin-gonic/gin"
)

// AuthHandler exposes account registration and login.
type AuthHandler struct {
	UserService user.UserService
}

// RegisterHandler handles POST /suarec/auth/register.
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req struct {
		Name     string   `json:"name"`
		Email    string   `json:"email" binding:"required,email"`
		Password string   `json:"password" binding:"required,min=8"`
		Roles    []string `json:"roles"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	resp, err := h.UserService.Register(user.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Roles:    req.Roles,
	})
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// LoginHandler handles POST /suarec/auth/login.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	resp, err := h.UserService.Login(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "credenciales inválidas"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetUserHandler handles GET /suarec/users/:id.
func (h *AuthHandler) GetUserHandler(c *gin.Context) {
	u, err := h.UserService.GetUserByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "usuario no encontrado"})
		return
	}
	c.JSON(http.StatusOK, u)
}
