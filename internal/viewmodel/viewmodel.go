package viewmodel

import (
	"sync"

	"inventory-dashboard/internal/models"
)

// ViewModel owns the dashboard's view of upstream state: the last fetched
// product and activity lists, the health badge, and the UI parameters
// (search, filter, page, threshold). Fetched lists are replaced wholesale on
// every successful refresh - last fetch wins, no merging. A single RWMutex
// serializes the poller's writes against handler reads.
type ViewModel struct {
	mu sync.RWMutex

	products    []models.Product
	activities  []models.ActivityRecord
	health      models.HealthStatus
	healthKnown bool

	search    string
	filter    Filter
	page      int
	pageSize  int
	threshold int
	topLimit  int
}

// New creates a ViewModel with the configured page size, low-stock threshold
// and top-products chart limit. The view starts on page 1 with no search and
// the "all" filter.
func New(pageSize, threshold, topLimit int) *ViewModel {
	return &ViewModel{
		filter:    FilterAll,
		page:      1,
		pageSize:  pageSize,
		threshold: threshold,
		topLimit:  topLimit,
	}
}

// ReplaceProducts swaps in a freshly fetched product list.
func (vm *ViewModel) ReplaceProducts(products []models.Product) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.products = products
}

// ReplaceActivities swaps in a freshly fetched activity log.
func (vm *ViewModel) ReplaceActivities(activities []models.ActivityRecord) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.activities = activities
}

// SetHealth records the latest upstream health payload.
func (vm *ViewModel) SetHealth(h models.HealthStatus) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.health = h
	vm.healthKnown = true
}

// Health returns the last known upstream health payload and whether one has
// been received at all.
func (vm *ViewModel) Health() (models.HealthStatus, bool) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.health, vm.healthKnown
}

// SetSearch updates the search term. A changed term resets the page to 1 so
// a fresh query never lands on a stale page past the shrunken result set.
func (vm *ViewModel) SetSearch(term string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if term != vm.search {
		vm.search = term
		vm.page = 1
	}
}

// SetFilter updates the stock filter. A changed filter resets the page to 1.
func (vm *ViewModel) SetFilter(f Filter) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if f != vm.filter {
		vm.filter = f
		vm.page = 1
	}
}

// SetPage requests a page number. Out-of-range values are tolerated; the
// derivation clamps them into [1, totalPages].
func (vm *ViewModel) SetPage(page int) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.page = page
}

// ApplyQuery applies request parameters in one step, preserving the
// page-reset rule: if search or filter changed, the requested page is
// ignored and the view returns to page 1. A page value < 1 means "keep the
// current page".
func (vm *ViewModel) ApplyQuery(search string, filter Filter, page int) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	reset := false
	if search != vm.search {
		vm.search = search
		reset = true
	}
	if filter != vm.filter {
		vm.filter = filter
		reset = true
	}

	if reset {
		vm.page = 1
		return
	}
	if page >= 1 {
		vm.page = page
	}
}

// Threshold returns the current low-stock threshold.
func (vm *ViewModel) Threshold() int {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.threshold
}

// SetThreshold updates the low-stock threshold. Non-positive values are
// rejected.
func (vm *ViewModel) SetThreshold(threshold int) error {
	if threshold < 1 {
		return ErrInvalidThreshold
	}
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.threshold = threshold
	return nil
}

// InventoryPage derives the current page of inventory from the stored view
// parameters.
func (vm *ViewModel) InventoryPage() Page {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return Paginate(vm.products, Query{
		Search:    vm.search,
		Filter:    vm.filter,
		Page:      vm.page,
		PageSize:  vm.pageSize,
		Threshold: vm.threshold,
	})
}

// Stats derives the dashboard stat cards from the full product list.
func (vm *ViewModel) Stats() Stats {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return ComputeStats(vm.products, vm.threshold)
}

// Distribution derives the pie chart buckets.
func (vm *ViewModel) Distribution() Distribution {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return StatusDistribution(vm.products, vm.threshold)
}

// TopProducts derives the bar chart series.
func (vm *ViewModel) TopProducts() []ChartPoint {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return TopProducts(vm.products, vm.topLimit)
}

// Products returns a copy of the full product list.
func (vm *ViewModel) Products() []models.Product {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	out := make([]models.Product, len(vm.products))
	copy(out, vm.products)
	return out
}

// Activities returns a copy of the activity log, newest first as served by
// the upstream API.
func (vm *ViewModel) Activities() []models.ActivityRecord {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	out := make([]models.ActivityRecord, len(vm.activities))
	copy(out, vm.activities)
	return out
}

// RecentActivities returns at most limit entries from the head of the log
// (the dashboard widget shows the first 5).
func (vm *ViewModel) RecentActivities(limit int) []models.ActivityRecord {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	if limit > len(vm.activities) {
		limit = len(vm.activities)
	}
	if limit < 0 {
		limit = 0
	}
	out := make([]models.ActivityRecord, limit)
	copy(out, vm.activities[:limit])
	return out
}

// ViewModelError represents a view-model level error
type ViewModelError struct {
	Message string
}

func (e *ViewModelError) Error() string {
	return e.Message
}

var ErrInvalidThreshold = &ViewModelError{Message: "low-stock threshold must be a positive integer"}
