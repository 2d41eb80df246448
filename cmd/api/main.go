package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/restaurant-service/internal/api/http"
	"github.com/spec-kit/restaurant-service/internal/api/http/handlers"
	"github.com/spec-kit/restaurant-service/internal/auth"
	"github.com/spec-kit/restaurant-service/internal/config"
	"github.com/spec-kit/restaurant-service/internal/events"
	"github.com/spec-kit/restaurant-service/internal/observability"
	"github.com/spec-kit/restaurant-service/internal/persistence"
	"github.com/spec-kit/restaurant-service/internal/repository"
	"github.com/spec-kit/restaurant-service/internal/service"
	"github.com/spec-kit/restaurant-service/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewCachedUserRepository(
		repository.NewUserRepository(pool), redis.Client, cfg.Redis.UserCacheTTL(), logger)
	orderRepo := repository.NewOrderRepository(pool)
	tableRepo := repository.NewTableRepository(pool)
	inventoryRepo := repository.NewInventoryRepository(pool)

	dispatcher := events.NewInMemoryDispatcher(logger)
	registry := ws.NewRegistry(logger)

	authService := service.NewAuthService(*cfg, userRepo)
	orderService := service.NewOrderService(orderRepo, tableRepo, dispatcher)
	tableService := service.NewTableService(tableRepo, dispatcher)
	inventoryService := service.NewInventoryService(inventoryRepo, dispatcher)

	notificationService := service.NewNotificationService(dispatcher, registry, logger)
	notificationService.RegisterHandlers()

	tokens := authService.TokenManager()
	refreshPolicy := auth.NewRefreshPolicy(tokens, cfg.Auth.RefreshThreshold())
	authMiddleware := auth.NewAuthMiddleware(tokens, userRepo)
	gateway := ws.NewGateway(registry, tokens, userRepo, logger, cfg.WebSocket.WriteTimeout())

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Orders:         handlers.NewOrdersHandler(orderService),
		Tables:         handlers.NewTablesHandler(tableService),
		Inventory:      handlers.NewInventoryHandler(inventoryService),
		Gateway:        gateway,
		AuthMiddleware: authMiddleware,
		SlidingToken:   auth.SlidingToken(refreshPolicy, logger),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
