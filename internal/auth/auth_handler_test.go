package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"inventory-dashboard/internal/client"
	"inventory-dashboard/internal/session"
	"inventory-dashboard/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockAuthenticator is a mock implementation of Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, username, password string) (*client.LoginResult, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.LoginResult), args.Error(1)
}

func (m *MockAuthenticator) SetToken(token string) {
	m.Called(token)
}

func setupAuthTestRouter(handler *AuthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	logger := zap.NewNop()
	// Error handler middleware (inline to avoid import cycle)
	router.Use(func(c *gin.Context) {
		c.Next()
		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			if stdErr, ok := err.(*errors.StandardError); ok {
				logger.Warn("Request error",
					zap.String("error_code", stdErr.Code),
					zap.String("message", stdErr.Message),
				)
				c.JSON(stdErr.HTTPStatus(), stdErr)
				return
			}
			c.JSON(http.StatusInternalServerError, errors.NewInternalError("internal server error", err))
		}
	})
	v1 := router.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", handler.Login)
		}
	}
	return router
}

func postLogin(t *testing.T, router *gin.Engine, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLogin_Success(t *testing.T) {
	upstream := &MockAuthenticator{}
	upstream.On("Login", mock.Anything, "admin", "admin123").Return(&client.LoginResult{
		Token:    "upstream-token",
		Username: "admin",
		Role:     "admin",
	}, nil)
	upstream.On("SetToken", "upstream-token").Return()

	logger := zap.NewNop()
	store := session.NewMemoryStore()
	jwtManager := NewJWTManager("test-secret-key-with-enough-length", logger)
	handler := NewAuthHandler(upstream, jwtManager, store, logger)
	router := setupAuthTestRouter(handler)

	w := postLogin(t, router, LoginRequest{Username: "admin", Password: "admin123"})

	require.Equal(t, http.StatusOK, w.Code)
	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Bearer", resp.Type)
	assert.Equal(t, "admin", resp.Username)
	assert.Equal(t, "admin", resp.Role)
	assert.Equal(t, 600, resp.ExpiresIn)

	// Issued token must validate and carry the upstream role.
	claims, err := jwtManager.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin", claims.Role)

	// The upstream session is kept for later mutation calls.
	upstream.AssertCalled(t, "SetToken", "upstream-token")
	stored, err := store.Get(context.Background(), session.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "upstream-token", stored)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	upstream := &MockAuthenticator{}
	upstream.On("Login", mock.Anything, "admin", "wrong").Return(nil, client.ErrInvalidCredentials)

	logger := zap.NewNop()
	jwtManager := NewJWTManager("test-secret-key-with-enough-length", logger)
	handler := NewAuthHandler(upstream, jwtManager, session.NewMemoryStore(), logger)
	router := setupAuthTestRouter(handler)

	w := postLogin(t, router, LoginRequest{Username: "admin", Password: "wrong"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid credentials")
	upstream.AssertNotCalled(t, "SetToken", mock.Anything)
}

func TestLogin_MissingFields(t *testing.T) {
	upstream := &MockAuthenticator{}

	logger := zap.NewNop()
	jwtManager := NewJWTManager("test-secret-key-with-enough-length", logger)
	handler := NewAuthHandler(upstream, jwtManager, session.NewMemoryStore(), logger)
	router := setupAuthTestRouter(handler)

	w := postLogin(t, router, map[string]string{"username": "admin"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	upstream.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_UpstreamUnreachable(t *testing.T) {
	upstream := &MockAuthenticator{}
	upstream.On("Login", mock.Anything, "admin", "admin123").Return(nil, assert.AnError)

	logger := zap.NewNop()
	jwtManager := NewJWTManager("test-secret-key-with-enough-length", logger)
	handler := NewAuthHandler(upstream, jwtManager, session.NewMemoryStore(), logger)
	router := setupAuthTestRouter(handler)

	w := postLogin(t, router, LoginRequest{Username: "admin", Password: "admin123"})

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestJWTManager_RoundTrip(t *testing.T) {
	logger := zap.NewNop()
	jwtManager := NewJWTManager("test-secret-key-with-enough-length", logger)

	token, err := jwtManager.GenerateToken("operator", "viewer")
	require.NoError(t, err)

	claims, err := jwtManager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "operator", claims.Username)
	assert.Equal(t, "viewer", claims.Role)
}

func TestJWTManager_RejectsGarbage(t *testing.T) {
	logger := zap.NewNop()
	jwtManager := NewJWTManager("test-secret-key-with-enough-length", logger)

	_, err := jwtManager.ValidateToken("not-a-token")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_RejectsWrongKey(t *testing.T) {
	logger := zap.NewNop()
	issuer := NewJWTManager("test-secret-key-with-enough-length", logger)
	verifier := NewJWTManager("a-completely-different-secret-key!", logger)

	token, err := issuer.GenerateToken("admin", "admin")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
