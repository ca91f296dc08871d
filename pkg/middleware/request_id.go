package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// RequestIDHeader is the HTTP header name for request ID
	RequestIDHeader = "X-Request-ID"
	// RequestIDContextKey is the context key for request ID
	RequestIDContextKey = "request_id"
)

// RequestIDMiddleware extracts or generates X-Request-ID header
func RequestIDMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
			logger.Debug("Generated new request ID",
				zap.String("request_id", requestID),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
			)
		}

		// Store request ID in context and echo it back to the caller
		c.Set(RequestIDContextKey, requestID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), RequestIDContextKey, requestID))
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

// GetRequestID retrieves the request ID from the Gin context
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDContextKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

// RequestIDStore remembers responses of processed write requests so a
// retried request with the same X-Request-ID gets the stored response
// instead of re-running the mutation against the upstream API.
type RequestIDStore interface {
	Store(ctx context.Context, requestID string, response []byte, ttl time.Duration) error
	Get(ctx context.Context, requestID string) ([]byte, error)
}

// InMemoryRequestIDStore is an in-memory implementation of RequestIDStore
type InMemoryRequestIDStore struct {
	mu    sync.RWMutex
	store map[string]requestIDEntry
}

type requestIDEntry struct {
	response  []byte
	expiresAt time.Time
}

var ErrRequestIDNotFound = &RequestIDError{Message: "request ID not found"}

type RequestIDError struct {
	Message string
}

func (e *RequestIDError) Error() string {
	return e.Message
}

// NewInMemoryRequestIDStore creates a new in-memory request ID store with a
// background sweep of expired entries.
func NewInMemoryRequestIDStore() *InMemoryRequestIDStore {
	store := &InMemoryRequestIDStore{
		store: make(map[string]requestIDEntry),
	}
	go store.cleanupExpired(1 * time.Minute)
	return store
}

func (s *InMemoryRequestIDStore) Store(ctx context.Context, requestID string, response []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store[requestID] = requestIDEntry{
		response:  response,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (s *InMemoryRequestIDStore) Get(ctx context.Context, requestID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, exists := s.store[requestID]
	if !exists || time.Now().After(entry.expiresAt) {
		return nil, ErrRequestIDNotFound
	}
	return entry.response, nil
}

func (s *InMemoryRequestIDStore) cleanupExpired(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for range ticker.C {
		s.mu.Lock()
		now := time.Now()
		for id, entry := range s.store {
			if now.After(entry.expiresAt) {
				delete(s.store, id)
			}
		}
		s.mu.Unlock()
	}
}

// IdempotencyMiddleware replays the stored response for a write request whose
// X-Request-ID was already processed, and records successful (2xx) responses
// for later replay. Reads pass through untouched.
func IdempotencyMiddleware(store RequestIDStore, logger *zap.Logger, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "GET" || c.Request.Method == "HEAD" || c.Request.Method == "OPTIONS" {
			c.Next()
			return
		}

		requestID := GetRequestID(c)
		if requestID == "" {
			c.Next()
			return
		}

		if cached, err := store.Get(c.Request.Context(), requestID); err == nil && len(cached) > 0 {
			logger.Info("Duplicate request detected, returning stored response",
				zap.String("request_id", requestID),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
			)
			c.Data(200, "application/json", cached)
			c.Abort()
			return
		}

		writer := &responseWriter{ResponseWriter: c.Writer}
		c.Writer = writer

		c.Next()

		if c.Writer.Status() >= 200 && c.Writer.Status() < 300 && len(writer.body) > 0 {
			if err := store.Store(c.Request.Context(), requestID, writer.body, ttl); err != nil {
				logger.Warn("Failed to store response for idempotency",
					zap.String("request_id", requestID),
					zap.Error(err),
				)
			}
		}
	}
}

// responseWriter captures the response body
type responseWriter struct {
	gin.ResponseWriter
	body []byte
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body = append(w.body, b...)
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body = append(w.body, []byte(s)...)
	return w.ResponseWriter.WriteString(s)
}
