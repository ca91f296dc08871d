package viewmodel

import (
	"sort"
	"strings"

	"inventory-dashboard/internal/models"
)

// Filter selects which stock bucket the inventory list is narrowed to.
type Filter string

const (
	FilterAll = Filter("all")
	FilterLow = Filter("low")
	FilterOut = Filter("out")
)

// ParseFilter maps a query string to a Filter. Unknown values fall back to
// "all" so a stale or mistyped filter never produces an error page.
func ParseFilter(s string) Filter {
	switch Filter(s) {
	case FilterLow:
		return FilterLow
	case FilterOut:
		return FilterOut
	default:
		return FilterAll
	}
}

// Query carries every input the pagination pipeline needs. It is plain data
// so the pipeline stays a pure function.
type Query struct {
	Search    string
	Filter    Filter
	Page      int
	PageSize  int
	Threshold int
}

// Page is one screen of inventory plus the metadata the pagination controls
// need. Page is the clamped 1-based page number actually returned, which may
// be lower than the one requested.
type Page struct {
	Items        []models.Product
	Page         int
	TotalPages   int
	TotalMatches int
	HasPrev      bool
	HasNext      bool
}

// Paginate runs the search/filter/clamp/slice pipeline over the product list.
// It preserves the input order, never errors, and is safe to re-run: the same
// inputs always yield the same page. An empty result set still reports one
// page so the controls render a "Page 1 of 1" state instead of failing.
func Paginate(products []models.Product, q Query) Page {
	matched := make([]models.Product, 0, len(products))
	term := strings.ToLower(q.Search)

	for _, p := range products {
		if term != "" && !strings.Contains(strings.ToLower(p.Name), term) {
			continue
		}
		switch q.Filter {
		case FilterLow:
			if p.Quantity == 0 || p.Quantity > q.Threshold {
				continue
			}
		case FilterOut:
			if p.Quantity != 0 {
				continue
			}
		}
		matched = append(matched, p)
	}

	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = 1
	}

	totalPages := (len(matched) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	// Clamp silently: a shrinking result set reduces the page instead of
	// returning an empty slice for a now-out-of-range page number.
	page := q.Page
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	return Page{
		Items:        matched[start:end],
		Page:         page,
		TotalPages:   totalPages,
		TotalMatches: len(matched),
		HasPrev:      page > 1,
		HasNext:      page < totalPages,
	}
}

// Stats are the headline numbers on the dashboard cards.
//
// LowStockCount deliberately counts zero-quantity products as well
// (quantity <= threshold): the stat and the pie chart bucket then always
// agree. The "low" list filter stays zero-exclusive so out-of-stock items
// only appear under "out".
type Stats struct {
	TotalProducts int `json:"total_products"`
	TotalQuantity int `json:"total_quantity"`
	LowStockCount int `json:"low_stock_count"`
}

// ComputeStats derives the aggregate stats from the full, unfiltered list.
func ComputeStats(products []models.Product, threshold int) Stats {
	s := Stats{TotalProducts: len(products)}
	for _, p := range products {
		s.TotalQuantity += p.Quantity
		if p.Quantity <= threshold {
			s.LowStockCount++
		}
	}
	return s
}

// Distribution feeds the stock health pie chart. Healthy + LowOrOut always
// equals the total product count.
type Distribution struct {
	Healthy  int `json:"healthy"`
	LowOrOut int `json:"low_or_out"`
}

// StatusDistribution buckets the full list into healthy (above threshold)
// versus low-or-out (at or below threshold, including zero).
func StatusDistribution(products []models.Product, threshold int) Distribution {
	var d Distribution
	for _, p := range products {
		if p.Quantity <= threshold {
			d.LowOrOut++
		} else {
			d.Healthy++
		}
	}
	return d
}

// ChartPoint is a single bar of the top-products chart.
type ChartPoint struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// TopProducts returns the `limit` largest products by quantity, descending.
// The sort is stable so products with equal quantities keep their fetch
// order.
func TopProducts(products []models.Product, limit int) []ChartPoint {
	sorted := make([]models.Product, len(products))
	copy(sorted, products)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Quantity > sorted[j].Quantity
	})

	if limit > len(sorted) {
		limit = len(sorted)
	}
	if limit < 0 {
		limit = 0
	}

	points := make([]ChartPoint, limit)
	for i := 0; i < limit; i++ {
		points[i] = ChartPoint{Name: sorted[i].Name, Quantity: sorted[i].Quantity}
	}
	return points
}
