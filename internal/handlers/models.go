package handlers

import (
	"inventory-dashboard/internal/models"
	"inventory-dashboard/internal/viewmodel"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	// Error message describing what went wrong
	Error string `json:"error" example:"product not found"`
}

// ProductResponse is one inventory row with its stock badge
type ProductResponse struct {
	// Product name (also the product's identifier)
	Name string `json:"name" example:"Laptop Stand"`

	// Current stock quantity
	Quantity int `json:"quantity" example:"25"`

	// Stock badge: in_stock, low_stock or out_of_stock
	Status models.StockStatus `json:"status" example:"in_stock"`
}

// InventoryPageResponse is one screen of inventory plus pagination controls
type InventoryPageResponse struct {
	// Current page of products
	Items []ProductResponse `json:"items"`

	// Clamped 1-based page number actually returned
	Page int `json:"page" example:"1"`

	// Total number of pages (at least 1, even with no matches)
	TotalPages int `json:"total_pages" example:"3"`

	// Number of products matching the search and filter
	TotalMatches int `json:"total_matches" example:"20"`

	// Whether the prev / next buttons should be enabled
	HasPrev bool `json:"has_prev"`
	HasNext bool `json:"has_next"`
}

// SummaryResponse feeds the dashboard landing view: stat cards, both chart
// series, the recent-activity widget and the environment badge
type SummaryResponse struct {
	Stats        viewmodel.Stats        `json:"stats"`
	Distribution viewmodel.Distribution `json:"distribution"`
	TopProducts  []viewmodel.ChartPoint `json:"top_products"`

	// First entries of the activity log (newest first)
	RecentActivity []models.ActivityRecord `json:"recent_activity"`

	// Upstream environment name; empty until the first successful health fetch
	Env string `json:"env" example:"production"`
}

// ActivityListResponse is the full activity log
type ActivityListResponse struct {
	Activities []models.ActivityRecord `json:"activities"`
	Total      int                     `json:"total"`
}

// ThresholdResponse carries the current low-stock threshold
type ThresholdResponse struct {
	Threshold int `json:"threshold" example:"5"`
}

// ThresholdRequest updates the low-stock threshold
type ThresholdRequest struct {
	Threshold int `json:"threshold" binding:"required" example:"5"`
}

// CreateProductRequest is the body for POST /inventory/products. Quantity is
// a pointer so an explicit zero is distinguishable from a missing field.
type CreateProductRequest struct {
	Name     string `json:"name" binding:"required" example:"Webcam"`
	Quantity *int   `json:"quantity" binding:"required" example:"4"`
}

// UpdateProductRequest is the body for PUT /inventory/products/:name
type UpdateProductRequest struct {
	Quantity *int `json:"quantity" binding:"required" example:"9"`
}

// MutationResponse acknowledges a successful mutation
type MutationResponse struct {
	Status string `json:"status" example:"ok"`
	Name   string `json:"name" example:"Webcam"`
}
