// Package config provides configuration management for the dispatch
// server. It loads settings from environment variables with sensible
// defaults and validates them so the application starts safely.
//
// Environment Variables:
//
// Application Settings:
//   - PORT: Server port (default: 8080)
//   - LOG_LEVEL: Logging level (default: info)
//   - SHUTDOWN_TIMEOUT: Graceful shutdown window (default: 30s)
//
// Dispatch Settings:
//   - DISPATCH_PRELOAD: Comma-separated dispatch types loaded before
//     action registration, in priority order (default: Index,Path)
//   - DISPATCH_POSTLOAD: Comma-separated dispatch types appended after
//     registration (default: Default)
//   - DISPATCH_DEBUG: Log the action table after setup (default: false)
//
// Example usage:
//
//	cfg := config.Load()
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("Invalid configuration: %v", err)
//	}
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values for the dispatch server. Each
// field corresponds to an environment variable that can override its
// default.
type Config struct {
	// Application settings
	Port            string // Server port number
	LogLevel        string // Logging level (debug, info, warn, error)
	ShutdownTimeout string // Graceful shutdown window (e.g. "30s")

	// Dispatch settings
	DispatchPreload  string // Comma-separated preload dispatch types
	DispatchPostload string // Comma-separated postload dispatch types
	DispatchDebug    bool   // Whether to log the action table after setup
}

// Load creates a new Config with values from the environment. It does
// not validate; call Validate on the result before use.
func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getEnv("SHUTDOWN_TIMEOUT", "30s"),

		DispatchPreload:  getEnv("DISPATCH_PRELOAD", "Index,Path"),
		DispatchPostload: getEnv("DISPATCH_POSTLOAD", "Default"),
		DispatchDebug:    getBoolEnv("DISPATCH_DEBUG", false),
	}
}

// Preload returns the preload dispatch type names in priority order.
func (c *Config) Preload() []string {
	return splitList(c.DispatchPreload)
}

// Postload returns the postload dispatch type names in priority order.
func (c *Config) Postload() []string {
	return splitList(c.DispatchPostload)
}

// ShutdownWindow returns the parsed shutdown timeout.
func (c *Config) ShutdownWindow() time.Duration {
	d, err := time.ParseDuration(c.ShutdownTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// Validate checks that all configured values are usable. The
// application should call it after Load and before starting.
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a valid port number between 1 and 65535")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
		// Valid log levels
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error")
	}

	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be a valid duration (e.g., '30s', '1m')")
	}

	if len(c.Preload()) == 0 {
		return fmt.Errorf("DISPATCH_PRELOAD must name at least one dispatch type")
	}

	return nil
}

// splitList splits a comma-separated value, dropping empty entries.
func splitList(value string) []string {
	var parts []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// getEnv retrieves an environment variable value or returns a default
// value if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnv retrieves a boolean environment variable value or returns
// a default value on absence or a parsing error.
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
