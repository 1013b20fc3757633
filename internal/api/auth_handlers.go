package api

import (
	"github.com/gin-gonic/gin"

	"mclub-backend/internal/services"
)

// AuthHandlers exposes login
type AuthHandlers struct {
	auth *services.AuthService
}

// NewAuthHandlers creates auth handlers
func NewAuthHandlers(auth *services.AuthService) *AuthHandlers {
	return &AuthHandlers{auth: auth}
}

// Login handles POST /auth/login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	token, member, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, gin.H{
		"token":  token,
		"member": member,
	})
}
