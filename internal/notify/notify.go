package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Level distinguishes success toasts from error toasts.
type Level string

const (
	LevelSuccess = Level("success")
	LevelError   = Level("error")
)

// Notification is one pending toast for the rendering layer.
type Notification struct {
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier is the toast collaborator: the poller and handlers push messages,
// the rendering layer consumes them.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Feed is an in-memory Notifier the frontend drains over HTTP. Capacity is
// bounded; when full, the oldest notification is dropped.
type Feed struct {
	mu      sync.Mutex
	pending []Notification
	max     int
	logger  *zap.Logger
}

const defaultFeedCapacity = 50

// NewFeed creates a notification feed.
func NewFeed(logger *zap.Logger) *Feed {
	return &Feed{
		max:    defaultFeedCapacity,
		logger: logger,
	}
}

func (f *Feed) Success(message string) {
	f.push(Notification{Level: LevelSuccess, Message: message, CreatedAt: time.Now()})
}

func (f *Feed) Error(message string) {
	f.push(Notification{Level: LevelError, Message: message, CreatedAt: time.Now()})
	f.logger.Warn("Notification", zap.String("message", message))
}

func (f *Feed) push(n Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.pending) >= f.max {
		f.pending = f.pending[1:]
	}
	f.pending = append(f.pending, n)
}

// Drain returns all pending notifications and clears the feed.
func (f *Feed) Drain() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.pending
	f.pending = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}
