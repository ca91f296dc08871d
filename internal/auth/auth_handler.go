package auth

import (
	"context"
	"net/http"
	"time"

	"inventory-dashboard/internal/client"
	"inventory-dashboard/internal/session"
	"inventory-dashboard/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// upstream session entries expire with the local JWT.
const sessionTTL = 10 * time.Minute

// Authenticator is the slice of the upstream client the login flow needs.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*client.LoginResult, error)
	SetToken(token string)
}

// AuthHandler handles authentication requests: credentials are proxied to
// the upstream Inventory API, and on success a local JWT carrying the
// upstream username and role is issued for the dashboard's own endpoints.
type AuthHandler struct {
	upstream   Authenticator
	jwtManager *JWTManager
	store      session.Store
	logger     *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(upstream Authenticator, jwtManager *JWTManager, store session.Store, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		upstream:   upstream,
		jwtManager: jwtManager,
		store:      store,
		logger:     logger,
	}
}

// LoginRequest represents the login request
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required" example:"admin123"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token     string    `json:"token"`
	Type      string    `json:"type" example:"Bearer"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	ExpiresIn int       `json:"expires_in" example:"600"` // 10 minutes in seconds
	ExpiresAt time.Time `json:"expires_at"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid login request", zap.Error(err))
		c.Error(errors.NewValidationError("invalid request", "username or password"))
		c.Abort()
		return
	}

	result, err := h.upstream.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if err == client.ErrInvalidCredentials {
			h.logger.Warn("Invalid credentials",
				zap.String("username", req.Username),
			)
			c.JSON(http.StatusUnauthorized, errors.NewStandardError("Unauthorized", "invalid credentials", "username or password incorrect"))
			return
		}
		h.logger.Error("Upstream login failed", zap.Error(err))
		c.Error(errors.NewUpstreamError("login", err))
		c.Abort()
		return
	}

	// Keep the upstream session so future mutation calls carry its token.
	h.upstream.SetToken(result.Token)
	ctx := c.Request.Context()
	h.store.Set(ctx, session.KeyToken, result.Token, sessionTTL)
	h.store.Set(ctx, session.KeyUsername, result.Username, sessionTTL)
	h.store.Set(ctx, session.KeyRole, result.Role, sessionTTL)

	// Issue a local JWT for the dashboard's protected routes.
	token, err := h.jwtManager.GenerateToken(result.Username, result.Role)
	if err != nil {
		h.logger.Error("Failed to generate token", zap.Error(err))
		c.Error(errors.NewInternalError("failed to generate token", err))
		c.Abort()
		return
	}

	expiresAt := time.Now().Add(10 * time.Minute)
	response := LoginResponse{
		Token:     token,
		Type:      "Bearer",
		Username:  result.Username,
		Role:      result.Role,
		ExpiresIn: 600, // 10 minutes in seconds
		ExpiresAt: expiresAt,
	}

	h.logger.Info("User logged in successfully",
		zap.String("username", result.Username),
		zap.String("role", result.Role),
		zap.Time("expires_at", expiresAt),
	)

	c.JSON(http.StatusOK, response)
}
