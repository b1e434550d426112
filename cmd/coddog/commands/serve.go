package commands

import (
	"context"
	"os/signal"
	"syscall"

	"coddog/internal/api"
	"coddog/internal/config"
	"coddog/internal/db"
)

// ServeCommand runs the HTTP API server until interrupted.
func ServeCommand(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DatabaseURL, cfg.BinPath, cfg.DBWindowSize)
	if err != nil {
		return err
	}
	defer database.Close()

	return api.NewServer(database).ListenAndServe(ctx, cfg.ServerAddr)
}
