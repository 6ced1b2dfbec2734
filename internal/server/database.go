package server

import (
	"context"
	"log/slog"
	"time"

	repo "github.com/joseph-ayodele/po-tracker/internal/repository"
)

// ConnectDB opens the store named by cfg.DSN and runs migrations.
func ConnectDB(ctx context.Context, cfg repo.Config, logger *slog.Logger) (*repo.DB, error) {
	logger.Info("connecting to database")
	db, err := repo.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}
	if err := repo.Migrate(ctx, db); err != nil {
		logger.Error("failed to migrate database", "error", err)
		db.Close()
		return nil, err
	}

	logger.Info("successfully connected to database", "dialect", db.Dialect)
	return db, nil
}

// PingDB pings the database to ensure it's responsive
func PingDB(ctx context.Context, db *repo.DB, logger *slog.Logger, timeout time.Duration) error {
	logger.Debug("pinging database")
	err := db.HealthCheck(ctx, timeout)
	if err != nil {
		logger.Error("database ping failed", "error", err)
		return err
	}
	logger.Debug("database ping successful")
	return nil
}

// CloseDB closes the database connections gracefully
func CloseDB(db *repo.DB, logger *slog.Logger) {
	logger.Info("closing database connections")
	if db != nil {
		db.Close()
	}
	logger.Info("database connections closed")
}
