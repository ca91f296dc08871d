package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	// Upstream Inventory API
	InventoryAPIURL   string
	HTTPClientTimeout time.Duration
	// Refresh cadence
	PollInterval time.Duration
	// View-model defaults
	PageSize          int
	LowStockThreshold int
	TopProductsLimit  int
	// JWT Configuration (local dashboard sessions)
	JWTSecret string
	// Redis Configuration (optional - session/settings store)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	UseRedis      bool
}

func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// .env file is optional, continue with environment variables
	}

	return &Config{
		Port:        getEnv("PORT", "8090"),
		Environment: getEnv("ENVIRONMENT", "development"),
		// Upstream Inventory API
		InventoryAPIURL:   strings.TrimRight(getEnv("INVENTORY_API_URL", "http://localhost:8000"), "/"),
		HTTPClientTimeout: getEnvAsDuration("HTTP_CLIENT_TIMEOUT", 10*time.Second),
		// Refresh cadence (5 seconds, matching the dashboard poll rate)
		PollInterval: getEnvAsDuration("POLL_INTERVAL", 5*time.Second),
		// View-model defaults
		PageSize:          getEnvAsInt("PAGE_SIZE", 8),
		LowStockThreshold: getEnvAsInt("LOW_STOCK_THRESHOLD", 5),
		TopProductsLimit:  getEnvAsInt("TOP_PRODUCTS_LIMIT", 10),
		// JWT Configuration
		JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-in-production-min-32-chars"),
		// Redis Configuration (optional)
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		UseRedis:      getEnvAsBool("USE_REDIS", false), // Redis is optional, default false
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return result
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return strings.ToLower(value) == "true" || value == "1"
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return result
}
