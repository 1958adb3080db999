package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/chamadopetro/chamado-service/internal/api/http"
	"github.com/chamadopetro/chamado-service/internal/api/http/handlers"
	"github.com/chamadopetro/chamado-service/internal/auth"
	"github.com/chamadopetro/chamado-service/internal/config"
	"github.com/chamadopetro/chamado-service/internal/events"
	"github.com/chamadopetro/chamado-service/internal/observability"
	"github.com/chamadopetro/chamado-service/internal/persistence"
	"github.com/chamadopetro/chamado-service/internal/repository"
	"github.com/chamadopetro/chamado-service/internal/service"
	"github.com/chamadopetro/chamado-service/internal/worker"
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
	ticketRepo := repository.NewTicketRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	denylist := auth.NewTokenDenylist(redis.Client)
	authMiddleware := auth.NewMiddleware(tokens, userRepo, denylist)

	ticketService := service.NewTicketService(ticketRepo, userRepo, dispatcher)
	userService := service.NewUserService(userRepo, cfg.Auth.BcryptCost)
	authService := service.NewAuthService(userRepo, tokens, denylist)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notify)

	worker.StartNotificationWorker(notificationService)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(pg, redis, metrics),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Users:          handlers.NewUsersHandler(userService),
		Auth:           handlers.NewAuthHandler(authService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	logger.Info("service started",
		zap.String("addr", cfg.App.Addr()),
		zap.String("env", cfg.App.Env),
		zap.String("version", cfg.App.Version))

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
