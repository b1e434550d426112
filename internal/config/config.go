// Package config loads the environment configuration shared by the CLI
// and the HTTP server.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"coddog/internal/errors"
)

// Config is the process configuration. DatabaseURL, BinPath and
// DBWindowSize are required; missing values are fatal at startup.
type Config struct {
	DatabaseURL  string
	BinPath      string
	DBWindowSize int
	ServerAddr   string
}

// Load reads the configuration from the environment, consulting a .env
// file in the working directory first.
func Load() (*Config, error) {
	// A missing .env file is fine; explicit environment always wins.
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		BinPath:     os.Getenv("BIN_PATH"),
		ServerAddr:  os.Getenv("SERVER_ADDRESS"),
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New(errors.KindConfig, "DATABASE_URL must be set")
	}
	if cfg.BinPath == "" {
		return nil, errors.New(errors.KindConfig, "BIN_PATH must be set")
	}

	ws := os.Getenv("DB_WINDOW_SIZE")
	if ws == "" {
		return nil, errors.New(errors.KindConfig, "DB_WINDOW_SIZE must be set")
	}
	n, err := strconv.Atoi(ws)
	if err != nil || n <= 0 {
		return nil, errors.New(errors.KindConfig, "DB_WINDOW_SIZE must be a positive integer, got %q", ws)
	}
	cfg.DBWindowSize = n

	if cfg.ServerAddr == "" {
		cfg.ServerAddr = "127.0.0.1:3000"
	}
	return cfg, nil
}
