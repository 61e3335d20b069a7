package config

import (
	"os"
	"testing"
)

func TestNewFromEnv(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		t.Setenv("PANTRY_DB_PATH", "/tmp/pantry.db")
		t.Setenv("GEMINI_API_KEY", "gemini_key")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DatabasePath != "/tmp/pantry.db" {
			t.Errorf("Expected DatabasePath to be '/tmp/pantry.db', got '%s'", cfg.DatabasePath)
		}
		if cfg.GeminiAPIKey != "gemini_key" {
			t.Errorf("Expected GeminiAPIKey to be 'gemini_key', got '%s'", cfg.GeminiAPIKey)
		}
		if cfg.TxAttempts != 0 {
			t.Errorf("Expected TxAttempts to default to 0, got %d", cfg.TxAttempts)
		}
	})

	t.Run("MissingDatabasePath", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		os.Unsetenv("PANTRY_DB_PATH")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing PANTRY_DB_PATH, got nil")
		}
	})

	t.Run("MissingGeminiKey", func(t *testing.T) {
		t.Setenv("PANTRY_DB_PATH", "/tmp/pantry.db")
		os.Unsetenv("GEMINI_API_KEY")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing GEMINI_API_KEY, got nil")
		}
	})

	t.Run("InvalidTxAttempts", func(t *testing.T) {
		t.Setenv("PANTRY_DB_PATH", "/tmp/pantry.db")
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		t.Setenv("PANTRY_TX_ATTEMPTS", "zero")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for invalid PANTRY_TX_ATTEMPTS, got nil")
		}
	})

	t.Run("TxAttempts", func(t *testing.T) {
		t.Setenv("PANTRY_DB_PATH", "/tmp/pantry.db")
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		t.Setenv("PANTRY_TX_ATTEMPTS", "6")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.TxAttempts != 6 {
			t.Errorf("Expected TxAttempts to be 6, got %d", cfg.TxAttempts)
		}
	})
}
