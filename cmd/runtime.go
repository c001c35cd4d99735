package cmd

import (
	"context"
	"fmt"
	"log"

	"yamdb/pkg/database"
	"yamdb/pkg/utils"

	"go.uber.org/zap"
)

// runtime is what every command needs: config, a logger and a database pool.
type runtime struct {
	config *utils.Config
	logger *zap.Logger
	db     database.PgxIface
}

func setup(ctx context.Context) (*runtime, error) {
	config, err := utils.LoadConfig(envFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}

	db, err := database.Connect(ctx, database.ConnString(config.Database), config.Database.MaxConns)
	if err != nil {
		logger.Sync()
		return nil, fmt.Errorf("connect database: %w", err)
	}

	logger.Info("Database connected successfully",
		zap.String("host", config.Database.Host),
		zap.String("database", config.Database.Name))

	return &runtime{config: config, logger: logger, db: db}, nil
}

func (rt *runtime) close() {
	rt.db.Close()
	rt.logger.Sync()
}
