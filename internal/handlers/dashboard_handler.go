package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"inventory-dashboard/internal/client"
	"inventory-dashboard/internal/models"
	"inventory-dashboard/internal/notify"
	"inventory-dashboard/internal/poller"
	"inventory-dashboard/internal/session"
	"inventory-dashboard/internal/viewmodel"
	"inventory-dashboard/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// recentActivityLimit matches the dashboard widget, which shows the first
// five log entries.
const recentActivityLimit = 5

// ProductMutator is the slice of the poller the handlers dispatch mutations
// through. The poller owns the refresh-after-success and notification rules.
type ProductMutator interface {
	CreateProduct(ctx context.Context, product models.Product) error
	UpdateProduct(ctx context.Context, product models.Product) error
	DeleteProduct(ctx context.Context, name string) error
}

// DashboardHandler serves the derived view-model to the rendering layer and
// dispatches product mutations through the poller.
type DashboardHandler struct {
	vm      *viewmodel.ViewModel
	mutator ProductMutator
	feed    *notify.Feed
	store   session.Store
	logger  *zap.Logger
}

// NewDashboardHandler creates the handler set for the dashboard API.
func NewDashboardHandler(vm *viewmodel.ViewModel, mutator ProductMutator, feed *notify.Feed, store session.Store, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		vm:      vm,
		mutator: mutator,
		feed:    feed,
		store:   store,
		logger:  logger,
	}
}

// GetSummary handles GET /api/v1/dashboard/summary
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	health, _ := h.vm.Health()

	c.JSON(http.StatusOK, SummaryResponse{
		Stats:          h.vm.Stats(),
		Distribution:   h.vm.Distribution(),
		TopProducts:    h.vm.TopProducts(),
		RecentActivity: h.vm.RecentActivities(recentActivityLimit),
		Env:            health.Env,
	})
}

// ListInventory handles GET /api/v1/inventory
//
// Query params: search (substring, case-insensitive), filter (all|low|out),
// page (1-based). Changing search or filter resets the page to 1; the
// requested page is clamped into range rather than erroring. An empty result
// set is a valid page, not an error.
func (h *DashboardHandler) ListInventory(c *gin.Context) {
	search := c.Query("search")
	filter := viewmodel.ParseFilter(c.DefaultQuery("filter", "all"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))

	h.vm.ApplyQuery(search, filter, page)
	result := h.vm.InventoryPage()

	threshold := h.vm.Threshold()
	items := make([]ProductResponse, len(result.Items))
	for i, p := range result.Items {
		items[i] = ProductResponse{
			Name:     p.Name,
			Quantity: p.Quantity,
			Status:   models.ClassifyStock(p.Quantity, threshold),
		}
	}

	c.JSON(http.StatusOK, InventoryPageResponse{
		Items:        items,
		Page:         result.Page,
		TotalPages:   result.TotalPages,
		TotalMatches: result.TotalMatches,
		HasPrev:      result.HasPrev,
		HasNext:      result.HasNext,
	})
}

// ListActivities handles GET /api/v1/activities
func (h *DashboardHandler) ListActivities(c *gin.Context) {
	activities := h.vm.Activities()
	c.JSON(http.StatusOK, ActivityListResponse{
		Activities: activities,
		Total:      len(activities),
	})
}

// GetNotifications handles GET /api/v1/notifications. Pending toasts are
// drained: each notification is delivered exactly once.
func (h *DashboardHandler) GetNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notifications": h.feed.Drain()})
}

// GetThreshold handles GET /api/v1/settings/threshold
func (h *DashboardHandler) GetThreshold(c *gin.Context) {
	c.JSON(http.StatusOK, ThresholdResponse{Threshold: h.vm.Threshold()})
}

// UpdateThreshold handles PUT /api/v1/settings/threshold. The new value
// applies to every derivation immediately and is persisted in the session
// store so it survives restarts when Redis is configured.
func (h *DashboardHandler) UpdateThreshold(c *gin.Context) {
	var req ThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError("invalid request", "threshold"))
		c.Abort()
		return
	}

	if err := h.vm.SetThreshold(req.Threshold); err != nil {
		c.Error(errors.NewValidationError(err.Error(), "threshold"))
		c.Abort()
		return
	}

	if err := session.SetInt(c.Request.Context(), h.store, session.KeyThreshold, req.Threshold); err != nil {
		// The in-memory value already applies; persistence failure is not
		// fatal to the request.
		h.logger.Warn("Failed to persist threshold", zap.Error(err))
	}

	h.logger.Info("Low-stock threshold updated", zap.Int("threshold", req.Threshold))
	c.JSON(http.StatusOK, ThresholdResponse{Threshold: req.Threshold})
}

// CreateProduct handles POST /api/v1/inventory/products
func (h *DashboardHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError("invalid request", "name or quantity"))
		c.Abort()
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.Error(errors.NewValidationError("product name must not be blank", "name"))
		c.Abort()
		return
	}
	if *req.Quantity < 0 {
		c.Error(errors.NewValidationError("quantity must be a non-negative integer", "quantity"))
		c.Abort()
		return
	}

	if err := h.mutator.CreateProduct(c.Request.Context(), models.Product{Name: name, Quantity: *req.Quantity}); err != nil {
		h.mutationError(c, name, err)
		return
	}

	c.JSON(http.StatusCreated, MutationResponse{Status: "ok", Name: name})
}

// UpdateProduct handles PUT /api/v1/inventory/products/:name
func (h *DashboardHandler) UpdateProduct(c *gin.Context) {
	name := c.Param("name")
	if strings.TrimSpace(name) == "" {
		c.Error(errors.NewValidationError("product name is required", "name"))
		c.Abort()
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError("invalid request", "quantity"))
		c.Abort()
		return
	}
	if *req.Quantity < 0 {
		c.Error(errors.NewValidationError("quantity must be a non-negative integer", "quantity"))
		c.Abort()
		return
	}

	if err := h.mutator.UpdateProduct(c.Request.Context(), models.Product{Name: name, Quantity: *req.Quantity}); err != nil {
		h.mutationError(c, name, err)
		return
	}

	c.JSON(http.StatusOK, MutationResponse{Status: "ok", Name: name})
}

// DeleteProduct handles DELETE /api/v1/inventory/products/:name
func (h *DashboardHandler) DeleteProduct(c *gin.Context) {
	name := c.Param("name")
	if strings.TrimSpace(name) == "" {
		c.Error(errors.NewValidationError("product name is required", "name"))
		c.Abort()
		return
	}

	if err := h.mutator.DeleteProduct(c.Request.Context(), name); err != nil {
		h.mutationError(c, name, err)
		return
	}

	c.JSON(http.StatusOK, MutationResponse{Status: "ok", Name: name})
}

// mutationError maps poller/upstream failures onto the response taxonomy:
// a pending duplicate is a conflict, an upstream rejection surfaces the
// server-provided detail, anything else is an upstream failure.
func (h *DashboardHandler) mutationError(c *gin.Context, name string, err error) {
	if err == poller.ErrMutationPending {
		c.Error(errors.NewMutationPending(name))
		c.Abort()
		return
	}

	if apiErr, ok := err.(*client.APIError); ok {
		if apiErr.StatusCode == http.StatusNotFound {
			c.Error(errors.NewStandardError("ProductNotFound", "product not found", "Product: "+name))
			c.Abort()
			return
		}
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 && apiErr.Detail != "" {
			c.Error(errors.NewInvalidRequest(apiErr.Detail, "Product: "+name))
			c.Abort()
			return
		}
	}

	c.Error(errors.NewUpstreamError("product mutation", err))
	c.Abort()
}
