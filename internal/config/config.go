// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config là cấu hình runtime đọc từ environment. Bất biến sau khi Load.
type Config struct {
	Port int
	Env  string

	EvictionPolicy  string
	MaxMemoryMB     int
	MaxKeys         int
	CleanupInterval time.Duration

	LogLevel           string
	EnableCompression  bool
	RateLimitPerMinute int
	CORSOrigins        []string
}

// Load đọc .env (nếu có) rồi environment, áp defaults và validate.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port: getenvInt("PORT", 3000),
		Env:  getenv("NODE_ENV", "development"),

		EvictionPolicy:  strings.ToUpper(getenv("EVICTION_POLICY", "LRU")),
		MaxMemoryMB:     getenvInt("MAX_MEMORY_MB", 512),
		MaxKeys:         getenvInt("MAX_KEYS", 100000),
		CleanupInterval: time.Duration(getenvInt("CLEANUP_INTERVAL_MS", 60000)) * time.Millisecond,

		LogLevel:           getenv("LOG_LEVEL", "info"),
		EnableCompression:  getenvBool("ENABLE_COMPRESSION", true),
		RateLimitPerMinute: getenvInt("RATE_LIMIT_PER_MINUTE", 100),
		CORSOrigins:        splitOrigins(getenv("CORS_ORIGINS", "http://localhost:5173")),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("PORT must be 1-65535, got %d", cfg.Port)
	}

	switch cfg.EvictionPolicy {
	case "LRU", "LFU", "FIFO":
	default:
		return fmt.Errorf("EVICTION_POLICY must be one of LRU, LFU, FIFO, got %q", cfg.EvictionPolicy)
	}

	if cfg.MaxMemoryMB < 1 {
		return fmt.Errorf("MAX_MEMORY_MB must be >= 1, got %d", cfg.MaxMemoryMB)
	}

	if cfg.MaxKeys < 0 {
		return fmt.Errorf("MAX_KEYS cannot be negative, got %d", cfg.MaxKeys)
	}

	if cfg.CleanupInterval < time.Millisecond {
		return fmt.Errorf("CLEANUP_INTERVAL_MS must be >= 1, got %s", cfg.CleanupInterval)
	}

	if cfg.RateLimitPerMinute < 1 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be >= 1, got %d", cfg.RateLimitPerMinute)
	}

	return nil
}

// IsProduction báo server đang chạy với NODE_ENV=production (ảnh hưởng việc
// redact thông điệp lỗi 500).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Snapshot trả về cấu hình dưới dạng phẳng cho API /api/config.
func (c *Config) Snapshot() map[string]any {
	return map[string]any{
		"port":               c.Port,
		"env":                c.Env,
		"evictionPolicy":     c.EvictionPolicy,
		"maxMemoryMB":        c.MaxMemoryMB,
		"maxKeys":            c.MaxKeys,
		"cleanupIntervalMs":  c.CleanupInterval.Milliseconds(),
		"logLevel":           c.LogLevel,
		"enableCompression":  c.EnableCompression,
		"rateLimitPerMinute": c.RateLimitPerMinute,
		"corsOrigins":        c.CORSOrigins,
	}
}

func splitOrigins(raw string) []string {
	if raw == "*" {
		return []string{"*"}
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func getenv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getenvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getenvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
