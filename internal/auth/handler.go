package auth

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tsunagu-circle/backend/pkg/response"
)

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest is the body for POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Handler serves the delegated auth surface.
type Handler struct {
	service  *Service
	verifier *TokenVerifier
	logger   *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(service *Service, verifier *TokenVerifier, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, verifier: verifier, logger: logger}
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	session, err := h.service.SignInWithPassword(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			response.Unauthorized(c, "invalid email or password", nil)
			return
		}
		h.logger.Error("sign-in failed", zap.Error(err))
		response.BadGateway(c, "auth service unavailable")
		return
	}
	response.OK(c, session)
}

// Refresh handles POST /auth/refresh.
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	session, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			response.Unauthorized(c, "session expired", nil)
			return
		}
		h.logger.Error("refresh failed", zap.Error(err))
		response.BadGateway(c, "auth service unavailable")
		return
	}
	response.OK(c, session)
}

// Logout handles POST /auth/logout.
func (h *Handler) Logout(c *gin.Context) {
	if token := bearerToken(c); token != "" {
		h.service.SignOut(c.Request.Context(), token)
	}
	response.OK(c, gin.H{"signed_out": true})
}

// GetSession handles GET /auth/session: present vs absent, nothing more.
func (h *Handler) GetSession(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		response.OK(c, gin.H{"session": nil})
		return
	}
	claims, err := h.verifier.Verify(token)
	if err != nil {
		response.OK(c, gin.H{"session": nil})
		return
	}
	response.OK(c, gin.H{"session": gin.H{
		"user_id": claims.Subject,
		"email":   claims.Email,
	}})
}

func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
