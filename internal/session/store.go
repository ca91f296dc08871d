package session

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"inventory-dashboard/internal/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Store is simple key-value persistence for session and settings data: the
// upstream auth token, username, role and the user-adjustable low-stock
// threshold. A ttl of zero means the entry never expires.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Well-known keys.
const (
	KeyToken     = "session:token"
	KeyUsername  = "session:username"
	KeyRole      = "session:role"
	KeyThreshold = "settings:low_stock_threshold"
)

var ErrNotFound = fmt.Errorf("session key not found")

// RedisStore implements Store using Redis
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

// MemoryStore is a fallback implementation when Redis is not configured or
// unreachable. Settings then last only for the process lifetime.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
}

type memoryEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// NewStore creates a session store: Redis when enabled and reachable,
// otherwise in-memory.
func NewStore(cfg *config.Config, logger *zap.Logger) Store {
	if !cfg.UseRedis {
		logger.Info("Session store using in-memory backend (USE_REDIS=false)")
		return NewMemoryStore()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		// Timeouts
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		// Retry settings
		MaxRetries:      3,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("Failed to connect to Redis, using in-memory session store",
			zap.String("host", cfg.RedisHost),
			zap.String("port", cfg.RedisPort),
			zap.Error(err),
		)
		rdb.Close()
		return NewMemoryStore()
	}

	logger.Info("Redis session store initialized successfully",
		zap.String("host", cfg.RedisHost),
		zap.String("port", cfg.RedisPort),
		zap.Int("db", cfg.RedisDB),
	)

	return &RedisStore{client: rdb, logger: logger}
}

// NewMemoryStore creates an in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	entry, exists := s.data[key]
	s.mu.RUnlock()

	if !exists {
		return "", ErrNotFound
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.data, key)
		s.mu.Unlock()
		return "", ErrNotFound
	}
	return entry.value, nil
}

func (s *MemoryStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	s.mu.Lock()
	s.data[key] = entry
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.Get(ctx, key)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// RedisStore implementation

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		s.logger.Warn("Redis Get error", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("redis get error: %w", err)
	}
	return val, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		s.logger.Warn("Redis Set error", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.logger.Warn("Redis Delete error", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("redis delete error: %w", err)
	}
	return nil
}

func (s *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	count, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		s.logger.Warn("Redis Exists error", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("redis exists error: %w", err)
	}
	return count > 0, nil
}

// Typed helpers

// GetInt reads an integer value.
func GetInt(ctx context.Context, store Store, key string) (int, error) {
	raw, err := store.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("stored value for %s is not an integer: %w", key, err)
	}
	return value, nil
}

// SetInt writes an integer value with no expiry.
func SetInt(ctx context.Context, store Store, key string, value int) error {
	return store.Set(ctx, key, strconv.Itoa(value), 0)
}
