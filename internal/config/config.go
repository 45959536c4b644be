// Package config provides configuration management for the conversation router
// application. It handles loading configuration from environment variables with
// sensible defaults and validates the configuration to ensure the application
// starts safely.
//
// The package supports local in-memory and Redis condition caches, routing
// engine tuning, periodic statistics reporting, and optional TLS for the HTTP
// API.
//
// Environment Variables:
//
// Application Settings:
//   - PORT: Server port (default: 8080)
//   - LOG_LEVEL: Logging level (default: info)
//   - LOG_FILE: Log file path, empty logs to stdout (default: empty)
//
// Condition Cache:
//   - CACHE_ENABLED: Whether condition result caching is enabled (default: true)
//   - CACHE_BACKEND: Cache backend - "local" or "redis" (default: local)
//   - CACHE_TTL: Cache time-to-live (default: 60s)
//
// Redis Configuration:
//   - REDIS_ADDRESS: Redis server address (default: localhost:6379)
//   - REDIS_PASSWORD: Redis password
//   - REDIS_DB: Redis database number 0-15 (default: 0)
//   - REDIS_POOL_SIZE: Redis connection pool size (default: 10)
//
// Routing Engine:
//   - MAX_EVALUATION_TIME: Advisory time budget per evaluation (default: 100ms)
//   - DEFAULT_FALLBACK_QUEUE: Queue used when no rule matches (default: general)
//   - ROUTING_LOG_DECISIONS: Log every routing decision (default: true)
//
// Statistics Reporting:
//   - STATS_REPORT_SCHEDULE: Cron schedule for periodic engine statistics
//     reports, empty disables reporting (default: @every 5m)
//
// TLS Configuration:
//   - TLS_CERT_FILE: TLS certificate file path (optional)
//   - TLS_KEY_FILE: TLS private key file path (optional)
//
// Example usage:
//
//	// Load configuration from environment
//	config := config.Load()
//
//	// Validate configuration
//	if err := config.Validate(); err != nil {
//		log.Fatalf("Invalid configuration: %v", err)
//	}
//
//	// Use configuration
//	server := &http.Server{
//		Addr: ":" + config.Port,
//	}
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values for the conversation router application.
// All string fields correspond to environment variables that can be set to
// override the default values.
//
// The configuration is loaded using the Load() function and should be
// validated using the Validate() method before use.
type Config struct {
	// Application settings
	Port     string // Server port number
	LogLevel string // Logging level (debug, info, warn, error)
	LogFile  string // Log file path, empty logs to stdout

	// Condition cache configuration
	CacheEnabled bool   // Whether condition result caching is enabled
	CacheBackend string // Cache backend: "local" or "redis"
	CacheTTL     string // Cache time-to-live (e.g., "60s", "5m")

	// Redis configuration for the redis cache backend
	RedisAddress  string // Redis server address (host:port)
	RedisPassword string // Redis authentication password
	RedisDB       string // Redis database number (0-15)
	RedisPoolSize string // Redis connection pool size

	// Routing engine configuration
	MaxEvaluationTime    string // Advisory time budget per evaluation (e.g., "100ms")
	DefaultFallbackQueue string // Queue used when no rule matches
	LogDecisions         bool   // Whether to log every routing decision

	// Statistics reporting configuration
	StatsReportSchedule string // Cron schedule for periodic stats reports, empty disables

	// TLS configuration
	TLSCertFile string // TLS certificate file path
	TLSKeyFile  string // TLS private key file path
}

// Load creates a new Config instance with values loaded from environment variables.
// If an environment variable is not set, the corresponding default value is used.
//
// This function does not validate the configuration - call Validate() on the
// returned Config to ensure all required values are properly set and valid.
//
// Returns:
//   - *Config: A new configuration instance with values from environment variables
//
// Example:
//
//	config := config.Load()
//	if err := config.Validate(); err != nil {
//		log.Fatal("Configuration error:", err)
//	}
//
//	// Configuration is ready to use
//	fmt.Printf("Starting server on port %s\n", config.Port)
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		// Condition cache configuration
		CacheEnabled: getBoolEnv("CACHE_ENABLED", true),
		CacheBackend: getEnv("CACHE_BACKEND", "local"),
		CacheTTL:     getEnv("CACHE_TTL", "60s"),

		// Redis configuration
		RedisAddress:  getEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnv("REDIS_DB", "0"),
		RedisPoolSize: getEnv("REDIS_POOL_SIZE", "10"),

		// Routing engine configuration
		MaxEvaluationTime:    getEnv("MAX_EVALUATION_TIME", "100ms"),
		DefaultFallbackQueue: getEnv("DEFAULT_FALLBACK_QUEUE", "general"),
		LogDecisions:         getBoolEnv("ROUTING_LOG_DECISIONS", true),

		// Statistics reporting configuration
		StatsReportSchedule: getEnv("STATS_REPORT_SCHEDULE", "@every 5m"),

		// TLS configuration
		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),
	}
}

// getEnv retrieves an environment variable value or returns a default value if not set.
//
// Parameters:
//   - key: The environment variable name to look up
//   - defaultValue: The value to return if the environment variable is not set or empty
//
// Returns:
//   - string: The environment variable value or the default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnv retrieves a boolean environment variable value or returns a default value.
//
// This function accepts common boolean representations:
//   - "true", "1", "t", "TRUE", "True" -> true
//   - "false", "0", "f", "FALSE", "False" -> false
//   - Any other value or parsing error -> returns defaultValue
//
// Parameters:
//   - key: The environment variable name to look up
//   - defaultValue: The value to return if the environment variable is not set, empty, or invalid
//
// Returns:
//   - bool: The parsed boolean value or the default value
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Validate performs comprehensive validation on the configuration to ensure
// all required fields are present and all values are valid.
//
// This method checks:
//   - Field format validation (ports, durations, log levels)
//   - Cache backend selection and Redis requirements
//   - Cross-field dependencies (TLS certificate and key pairing)
//
// The application should call this method after loading configuration and
// before starting to ensure safe operation.
//
// Returns:
//   - error: A descriptive error if validation fails, nil if configuration is valid
//
// Example:
//
//	config := config.Load()
//	if err := config.Validate(); err != nil {
//		log.Fatalf("Configuration validation failed: %v", err)
//	}
//	// Configuration is safe to use
func (c *Config) Validate() error {
	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a valid port number between 1 and 65535")
	}

	// Validate log level
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
		// Valid log levels
	default:
		return fmt.Errorf("LOG_LEVEL must be one of 'debug', 'info', 'warn' or 'error'")
	}

	// Validate cache backend
	switch c.CacheBackend {
	case "local", "redis":
		// Valid cache backends
	default:
		return fmt.Errorf("CACHE_BACKEND must be 'local' or 'redis'")
	}

	// Validate cache TTL if caching is enabled
	if c.CacheEnabled {
		ttl, err := time.ParseDuration(c.CacheTTL)
		if err != nil {
			return fmt.Errorf("CACHE_TTL must be a valid duration (e.g., '60s', '5m')")
		}
		if ttl <= 0 {
			return fmt.Errorf("CACHE_TTL must be a positive duration")
		}
	}

	// Validate Redis config if using the redis cache backend
	if c.CacheEnabled && c.CacheBackend == "redis" {
		if c.RedisAddress == "" {
			return fmt.Errorf("REDIS_ADDRESS is required when CACHE_BACKEND is 'redis'")
		}
		if db, err := strconv.Atoi(c.RedisDB); err != nil || db < 0 || db > 15 {
			return fmt.Errorf("REDIS_DB must be a number between 0 and 15")
		}
		if poolSize, err := strconv.Atoi(c.RedisPoolSize); err != nil || poolSize < 1 {
			return fmt.Errorf("REDIS_POOL_SIZE must be a positive number")
		}
	}

	// Validate evaluation time budget
	if budget, err := time.ParseDuration(c.MaxEvaluationTime); err != nil || budget <= 0 {
		return fmt.Errorf("MAX_EVALUATION_TIME must be a positive duration (e.g., '100ms')")
	}

	// Validate fallback queue
	if c.DefaultFallbackQueue == "" {
		return fmt.Errorf("DEFAULT_FALLBACK_QUEUE must not be empty")
	}

	// Validate TLS configuration
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return fmt.Errorf("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}

	return nil
}
