// Package config handles configuration loading and management
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	CacheDir    string
	Environment string
	FileRoots   []string
	CallTimeout time.Duration
}

// Load reads configuration from environment variables and .env file.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// It's okay if the file doesn't exist
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		CacheDir:    getEnv("STATECHECK_CACHE_DIR", DefaultCacheDir),
		Environment: getEnv("STATECHECK_ENVIRONMENT", ""),
		FileRoots:   parseFileRoots(getEnv("STATECHECK_FILE_ROOTS", DefaultFileRoot)),
	}

	// Parse the dispatch timeout (zero means unbounded)
	timeoutStr := getEnv("STATECHECK_CALL_TIMEOUT", "0")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid STATECHECK_CALL_TIMEOUT: %w", err)
	}
	if timeout < 0 {
		return nil, fmt.Errorf("invalid STATECHECK_CALL_TIMEOUT: must not be negative")
	}
	cfg.CallTimeout = timeout

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseFileRoots parses a comma-separated list of file root directories.
func parseFileRoots(s string) []string {
	if s == "" {
		return []string{}
	}

	parts := strings.Split(s, ",")
	roots := make([]string, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			roots = append(roots, trimmed)
		}
	}

	return roots
}

func (c *Config) String() string {
	environmentDisplay := c.Environment
	if environmentDisplay == "" {
		environmentDisplay = "(base only)"
	}

	timeoutDisplay := c.CallTimeout.String()
	if c.CallTimeout == 0 {
		timeoutDisplay = "(unbounded)"
	}

	return fmt.Sprintf(`Current Configuration:
======================
Cache Dir:     %s
Environment:   %s
File Roots:    %s
Call Timeout:  %s`,
		c.CacheDir,
		environmentDisplay,
		strings.Join(c.FileRoots, ", "),
		timeoutDisplay,
	)
}
