package main

import (
	"go.uber.org/zap"

	"konsol-admin/configs"
	"konsol-admin/internal/datastore"
	"konsol-admin/pkg/logger"
)

func main() {
	logger.InitLoggers()
	defer logger.SyncLoggers()

	cfg := configs.LoadConfig()

	server, err := datastore.New(cfg.StoreDBPath)
	if err != nil {
		logger.ErrorLogger.Fatal("Failed to load database", zap.Error(err))
	}

	logger.SystemLogger.Info("Starting data store",
		zap.String("port", cfg.StorePort), zap.String("db", cfg.StoreDBPath))
	if err := server.App().Listen(":" + cfg.StorePort); err != nil {
		logger.ErrorLogger.Fatal("Data store stopped", zap.Error(err))
	}
}
