package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/project-tracker/internal/api/http"
	"github.com/spec-kit/project-tracker/internal/api/http/handlers"
	"github.com/spec-kit/project-tracker/internal/auth"
	"github.com/spec-kit/project-tracker/internal/config"
	"github.com/spec-kit/project-tracker/internal/events"
	"github.com/spec-kit/project-tracker/internal/observability"
	"github.com/spec-kit/project-tracker/internal/persistence"
	"github.com/spec-kit/project-tracker/internal/repository"
	"github.com/spec-kit/project-tracker/internal/service"
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
	txRunner := repository.NewTxRunner(pool)

	userRepo := repository.NewUserRepository()
	projectRepo := repository.NewProjectRepository()
	ticketRepo := repository.NewTicketRepository()
	commentRepo := repository.NewCommentRepository()
	personnelRepo := repository.NewPersonnelRepository()
	projectHistoryRepo := repository.NewProjectHistoryRepository()
	ticketHistoryRepo := repository.NewTicketHistoryRepository()

	policy := auth.NewPolicy()
	revocationStore := persistence.NewRevocationStore(redis)

	dispatcher := events.NewInMemoryDispatcher()
	events.RegisterAuditLogger(dispatcher, logger)

	metrics := observability.NewMetrics()

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		DB:       pool,
		UserRepo: userRepo,
	})
	projectService := service.NewProjectService(service.ProjectDependencies{
		DB:            pool,
		Tx:            txRunner,
		ProjectRepo:   projectRepo,
		TicketRepo:    ticketRepo,
		PersonnelRepo: personnelRepo,
		UserRepo:      userRepo,
		HistoryRepo:   projectHistoryRepo,
		Policy:        policy,
		Dispatcher:    dispatcher,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		DB:          pool,
		Tx:          txRunner,
		TicketRepo:  ticketRepo,
		CommentRepo: commentRepo,
		HistoryRepo: ticketHistoryRepo,
		Policy:      policy,
		Dispatcher:  dispatcher,
	})
	commentService := service.NewCommentService(service.CommentDependencies{
		DB:          pool,
		CommentRepo: commentRepo,
		TicketRepo:  ticketRepo,
		Policy:      policy,
	})
	userService := service.NewUserService(service.UserDependencies{
		DB:            pool,
		Tx:            txRunner,
		UserRepo:      userRepo,
		TicketRepo:    ticketRepo,
		ProjectRepo:   projectRepo,
		PersonnelRepo: personnelRepo,
		HistoryRepo:   projectHistoryRepo,
		Policy:        policy,
		Tokens:        authService.TokenManager(),
		Revoked:       revocationStore,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), pool, userRepo, revocationStore, logger)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Projects:       handlers.NewProjectsHandler(projectService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Comments:       handlers.NewCommentsHandler(commentService),
		Users:          handlers.NewUsersHandler(userService),
		AuthMiddleware: authMiddleware,
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
