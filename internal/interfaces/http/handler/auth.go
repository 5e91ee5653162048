package handler

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/shopsync/backend/internal/infrastructure/auth"
)

// AuthHandler exchanges the configured admin secret for a bearer token
type AuthHandler struct {
	BaseHandler
	tokens      *auth.TokenService
	adminSecret string
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(tokens *auth.TokenService, adminSecret string) *AuthHandler {
	return &AuthHandler{
		tokens:      tokens,
		adminSecret: adminSecret,
	}
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/token", h.IssueToken)
}

// TokenRequest carries the admin secret
type TokenRequest struct {
	Secret string `json:"secret" binding:"required"`
}

// IssueToken validates the admin secret and issues a JWT
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Missing admin secret")
		return
	}

	if h.adminSecret == "" ||
		subtle.ConstantTimeCompare([]byte(req.Secret), []byte(h.adminSecret)) != 1 {
		h.Unauthorized(c, "Invalid admin secret")
		return
	}

	token, err := h.tokens.Issue()
	if err != nil {
		h.InternalError(c, "Failed to issue token")
		return
	}
	h.Success(c, gin.H{"token": token})
}
