package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath string
	GeminiAPIKey string

	// TxAttempts bounds the retry loop on write-lock contention.
	TxAttempts int
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	dbPath := os.Getenv("PANTRY_DB_PATH")
	if dbPath == "" {
		return nil, fmt.Errorf("PANTRY_DB_PATH environment variable not set")
	}

	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	if geminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	txAttempts := 0
	if raw := os.Getenv("PANTRY_TX_ATTEMPTS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("PANTRY_TX_ATTEMPTS must be a positive integer, got %q", raw)
		}
		txAttempts = n
	}

	return &Config{
		DatabasePath: dbPath,
		GeminiAPIKey: geminiAPIKey,
		TxAttempts:   txAttempts,
	}, nil
}
