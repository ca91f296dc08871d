package models

// Product is the inventory record as served by the upstream Inventory API.
// The API keys products by name; there is no separate numeric ID. Uniqueness
// is enforced upstream, this layer renders whatever list it is given.
type Product struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// ActivityRecord is one entry of the upstream activity log. Action is an open
// set (Added, Updated, Deleted today, possibly more later) and Timestamp is an
// opaque pre-formatted string that is never parsed here.
type ActivityRecord struct {
	Action    string `json:"action"`
	Details   string `json:"details"`
	Timestamp string `json:"timestamp"`
}

// Known activity actions. Unrecognized actions degrade to a neutral rendering
// instead of failing.
const (
	ActionAdded   = "Added"
	ActionUpdated = "Updated"
	ActionDeleted = "Deleted"
)

// StockStatus classifies a single product's quantity against the configured
// low-stock threshold.
type StockStatus string

const (
	StockStatusOut = StockStatus("out_of_stock")
	StockStatusLow = StockStatus("low_stock")
	StockStatusIn  = StockStatus("in_stock")
)

// ClassifyStock returns the per-product badge classification: out of stock at
// zero, low stock at or below the threshold, in stock above it.
func ClassifyStock(quantity, threshold int) StockStatus {
	switch {
	case quantity == 0:
		return StockStatusOut
	case quantity <= threshold:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

// HealthStatus is the upstream health payload (environment badge).
type HealthStatus struct {
	Env string `json:"env"`
}
