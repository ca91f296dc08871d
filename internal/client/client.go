package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"inventory-dashboard/internal/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// InventoryClient talks to the external Inventory API. It is a thin wrapper:
// no retries beyond what the poller's fixed interval already provides, and no
// local state besides the bearer token obtained at login.
type InventoryClient struct {
	http   *resty.Client
	logger *zap.Logger
}

// LoginResult is the upstream login response.
type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// APIError carries a non-2xx upstream response. Detail holds the
// server-provided message when the body included one.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("inventory API returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("inventory API returned %d", e.StatusCode)
}

var ErrInvalidCredentials = &APIError{StatusCode: http.StatusUnauthorized, Detail: "invalid credentials"}

// New creates a client for the given base URL.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *InventoryClient {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &InventoryClient{
		http:   httpClient,
		logger: logger,
	}
}

// SetToken attaches a bearer token to all subsequent requests.
func (c *InventoryClient) SetToken(token string) {
	c.http.SetAuthToken(token)
}

// Login authenticates against the upstream API. A non-2xx response maps to
// ErrInvalidCredentials; transport failures are returned as-is.
func (c *InventoryClient) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var result LoginResult

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"username": username, "password": password}).
		SetResult(&result).
		Post("/login")
	if err != nil {
		c.logger.Warn("Login request failed", zap.Error(err))
		return nil, fmt.Errorf("login request failed: %w", err)
	}

	if !resp.IsSuccess() {
		c.logger.Warn("Login rejected",
			zap.String("username", username),
			zap.Int("status", resp.StatusCode()),
		)
		return nil, ErrInvalidCredentials
	}

	return &result, nil
}

// ListProducts fetches the full product list.
func (c *InventoryClient) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&products).
		Get("/products")
	if err != nil {
		return nil, fmt.Errorf("list products failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, c.apiError(resp)
	}

	return products, nil
}

// ListActivities fetches the activity log.
func (c *InventoryClient) ListActivities(ctx context.Context) ([]models.ActivityRecord, error) {
	var activities []models.ActivityRecord

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&activities).
		Get("/activities")
	if err != nil {
		return nil, fmt.Errorf("list activities failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, c.apiError(resp)
	}

	return activities, nil
}

// Health fetches the upstream health payload.
func (c *InventoryClient) Health(ctx context.Context) (models.HealthStatus, error) {
	var health models.HealthStatus

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&health).
		Get("/health")
	if err != nil {
		return models.HealthStatus{}, fmt.Errorf("health check failed: %w", err)
	}
	if !resp.IsSuccess() {
		return models.HealthStatus{}, c.apiError(resp)
	}

	return health, nil
}

// CreateProduct issues POST /products.
func (c *InventoryClient) CreateProduct(ctx context.Context, product models.Product) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(product).
		Post("/products")
	if err != nil {
		return fmt.Errorf("create product failed: %w", err)
	}
	if !resp.IsSuccess() {
		return c.apiError(resp)
	}

	c.logger.Info("Product created",
		zap.String("name", product.Name),
		zap.Int("quantity", product.Quantity),
	)
	return nil
}

// UpdateProduct issues PUT /products/{name}.
func (c *InventoryClient) UpdateProduct(ctx context.Context, product models.Product) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("name", product.Name).
		SetBody(product).
		Put("/products/{name}")
	if err != nil {
		return fmt.Errorf("update product failed: %w", err)
	}
	if !resp.IsSuccess() {
		return c.apiError(resp)
	}

	c.logger.Info("Product updated",
		zap.String("name", product.Name),
		zap.Int("quantity", product.Quantity),
	)
	return nil
}

// DeleteProduct issues DELETE /products/{name}.
func (c *InventoryClient) DeleteProduct(ctx context.Context, name string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("name", name).
		Delete("/products/{name}")
	if err != nil {
		return fmt.Errorf("delete product failed: %w", err)
	}
	if !resp.IsSuccess() {
		return c.apiError(resp)
	}

	c.logger.Info("Product deleted", zap.String("name", name))
	return nil
}

// apiError extracts the server-provided detail message from a non-2xx
// response body, falling back to the status code alone.
func (c *InventoryClient) apiError(resp *resty.Response) error {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		body.Detail = ""
	}

	apiErr := &APIError{StatusCode: resp.StatusCode(), Detail: body.Detail}
	c.logger.Warn("Inventory API error",
		zap.Int("status", resp.StatusCode()),
		zap.String("detail", body.Detail),
	)
	return apiErr
}
