package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"

	"konsol-admin/configs"
	"konsol-admin/internal/aggregate"
	v1 "konsol-admin/internal/api/v1"
	"konsol-admin/internal/api/v1/handlers"
	"konsol-admin/internal/auth"
	"konsol-admin/internal/store"
	"konsol-admin/pkg/database"
	"konsol-admin/pkg/logger"
)

func main() {
	logger.InitLoggers()
	defer logger.SyncLoggers()

	cfg := configs.LoadConfig()

	rdb := database.ConnectRedis(cfg)
	cache := store.NewCache(rdb, cfg.CacheTTL)
	client := store.NewClient(cfg.StoreBaseURL, cache)

	sessions := auth.NewRedisSessionStore(rdb, cfg.SessionKey, cfg.SessionTTL)
	manager := auth.NewManager(client, sessions)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(limiter.New(limiter.Config{Max: 100}))

	v1.RegisterRoutes(app, handlers.Deps{
		Auth:     manager,
		Store:    client,
		Agg:      aggregate.NewService(client),
		Secret:   []byte(cfg.JWTSecret),
		TokenTTL: cfg.SessionTTL,
	})

	logger.SystemLogger.Info("Starting API server", zap.String("port", cfg.AppPort))
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		logger.ErrorLogger.Fatal("Server stopped", zap.Error(err))
	}
}
