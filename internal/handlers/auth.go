package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ngo-site/internal/auth"
)

// AuthHandler serves admin login against the single configured identity.
type AuthHandler struct {
	Auth *auth.Service
}

func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{Auth: authService}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks the submitted credentials and returns a bearer token. There
// is deliberately no lockout or rate limiting: this is a single static
// admin, not a multi-user system.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password required"})
		return
	}

	if !h.Auth.Verify(req.Email, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.Auth.Issue()
	if err != nil {
		log.Println("Failed to issue admin token:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
