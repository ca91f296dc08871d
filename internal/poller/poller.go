package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"inventory-dashboard/internal/client"
	"inventory-dashboard/internal/models"
	"inventory-dashboard/internal/notify"
	"inventory-dashboard/internal/viewmodel"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// InventoryAPI is the slice of the upstream client the poller depends on.
type InventoryAPI interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListActivities(ctx context.Context) ([]models.ActivityRecord, error)
	Health(ctx context.Context) (models.HealthStatus, error)
	CreateProduct(ctx context.Context, product models.Product) error
	UpdateProduct(ctx context.Context, product models.Product) error
	DeleteProduct(ctx context.Context, name string) error
}

// Toast messages match what the dashboard frontend shows.
const (
	msgConnectionLost = "Connection Lost"
	msgProductAdded   = "Product Added"
	msgProductUpdated = "Updated Successfully"
	msgProductDeleted = "Product Deleted"
)

var (
	// ErrMutationPending rejects a second mutation for the same product
	// while one is still in flight (double-click guard).
	ErrMutationPending = errors.New("a change for this product is already in progress")
)

// Poller drives the refresh cycle: one fetch on Start, one every interval,
// and one after each successful mutation. Products, activities and health are
// fetched concurrently and applied independently - a failure in one never
// blocks the others, and the prior state for the failed slice is retained
// until the next tick retries. There is no backoff; the fixed interval is the
// retry policy.
type Poller struct {
	api      InventoryAPI
	vm       *viewmodel.ViewModel
	notifier notify.Notifier
	logger   *zap.Logger
	interval time.Duration

	mu      sync.Mutex
	pending map[string]struct{}
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a Poller. Start must be called to begin polling.
func New(api InventoryAPI, vm *viewmodel.ViewModel, notifier notify.Notifier, logger *zap.Logger, interval time.Duration) *Poller {
	return &Poller{
		api:      api,
		vm:       vm,
		notifier: notifier,
		logger:   logger,
		interval: interval,
		pending:  make(map[string]struct{}),
	}
}

// Start performs an immediate refresh and then refreshes on the fixed
// interval until Stop is called. Calling Start on a running poller is a
// no-op. Overlapping cycles are tolerated: state assignment is
// last-completed-wins.
func (p *Poller) Start() {
	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})
	p.mu.Unlock()

	go func() {
		defer close(p.done)

		p.Refresh(ctx)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.Refresh(ctx)
			}
		}
	}()

	p.logger.Info("Poller started", zap.Duration("interval", p.interval))
}

// Stop cancels the polling loop and waits for it to exit. Requests already in
// flight are allowed to complete; their results still apply.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	done := p.done
	p.cancel = nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	p.logger.Info("Poller stopped")
}

// Refresh runs one cycle: products, activities and health fetched
// concurrently, each applied on its own success. Any failure surfaces a
// single transient notification for the cycle.
func (p *Poller) Refresh(ctx context.Context) {
	var (
		products   []models.Product
		activities []models.ActivityRecord
		health     models.HealthStatus

		productsErr   error
		activitiesErr error
		healthErr     error
	)

	// Plain errgroup without a shared cancel context: one failed fetch must
	// not abort its siblings.
	var g errgroup.Group
	g.Go(func() error {
		products, productsErr = p.api.ListProducts(ctx)
		return nil
	})
	g.Go(func() error {
		activities, activitiesErr = p.api.ListActivities(ctx)
		return nil
	})
	g.Go(func() error {
		health, healthErr = p.api.Health(ctx)
		return nil
	})
	g.Wait()

	if productsErr == nil {
		p.vm.ReplaceProducts(products)
	} else {
		p.logger.Warn("Product fetch failed, keeping previous list", zap.Error(productsErr))
	}

	if activitiesErr == nil {
		p.vm.ReplaceActivities(activities)
	} else {
		p.logger.Warn("Activity fetch failed, keeping previous log", zap.Error(activitiesErr))
	}

	if healthErr == nil {
		p.vm.SetHealth(health)
	} else {
		p.logger.Warn("Health fetch failed, keeping previous status", zap.Error(healthErr))
	}

	if productsErr != nil || activitiesErr != nil || healthErr != nil {
		p.notifier.Error(msgConnectionLost)
	}
}

// CreateProduct sends the mutation and, only on success, refreshes the
// view-model and pushes a success toast. There is no optimistic update: a
// failure leaves the displayed state exactly as it was.
func (p *Poller) CreateProduct(ctx context.Context, product models.Product) error {
	return p.mutate(ctx, product.Name, msgProductAdded, func() error {
		return p.api.CreateProduct(ctx, product)
	})
}

// UpdateProduct sends the quantity update for an existing product.
func (p *Poller) UpdateProduct(ctx context.Context, product models.Product) error {
	return p.mutate(ctx, product.Name, msgProductUpdated, func() error {
		return p.api.UpdateProduct(ctx, product)
	})
}

// DeleteProduct removes a product by name.
func (p *Poller) DeleteProduct(ctx context.Context, name string) error {
	return p.mutate(ctx, name, msgProductDeleted, func() error {
		return p.api.DeleteProduct(ctx, name)
	})
}

func (p *Poller) mutate(ctx context.Context, name, successMsg string, op func() error) error {
	if err := p.acquire(name); err != nil {
		return err
	}
	defer p.release(name)

	if err := op(); err != nil {
		p.notifier.Error(mutationErrorMessage(err))
		return err
	}

	p.notifier.Success(successMsg)
	p.Refresh(ctx)
	return nil
}

// acquire reserves the product name for a single in-flight mutation.
func (p *Poller) acquire(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, busy := p.pending[name]; busy {
		return ErrMutationPending
	}
	p.pending[name] = struct{}{}
	return nil
}

func (p *Poller) release(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.pending, name)
}

// mutationErrorMessage prefers the server-provided detail, falling back to a
// generic message.
func mutationErrorMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return "Operation failed"
}
