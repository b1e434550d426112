package config

import (
	"testing"

	"coddog/internal/errors"
)

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/coddog")
	t.Setenv("BIN_PATH", "/tmp/bins")
	t.Setenv("DB_WINDOW_SIZE", "8")
	t.Setenv("SERVER_ADDRESS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBWindowSize != 8 {
		t.Errorf("DBWindowSize = %d, want 8", cfg.DBWindowSize)
	}
	if cfg.ServerAddr == "" {
		t.Error("ServerAddr should default when unset")
	}
}

func TestLoadMissing(t *testing.T) {
	tests := []struct {
		name  string
		unset string
	}{
		{"no database url", "DATABASE_URL"},
		{"no bin path", "BIN_PATH"},
		{"no window size", "DB_WINDOW_SIZE"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "postgres://localhost/coddog")
			t.Setenv("BIN_PATH", "/tmp/bins")
			t.Setenv("DB_WINDOW_SIZE", "8")
			t.Setenv(test.unset, "")

			_, err := Load()
			if !errors.IsKind(err, errors.KindConfig) {
				t.Errorf("expected KindConfig, got %v", err)
			}
		})
	}
}

func TestLoadBadWindowSize(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/coddog")
	t.Setenv("BIN_PATH", "/tmp/bins")
	t.Setenv("DB_WINDOW_SIZE", "banana")

	if _, err := Load(); !errors.IsKind(err, errors.KindConfig) {
		t.Errorf("expected KindConfig, got %v", err)
	}
}
