package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/maxelo/hr-portal/internal/api/http"
	"github.com/maxelo/hr-portal/internal/api/http/handlers"
	"github.com/maxelo/hr-portal/internal/auth"
	"github.com/maxelo/hr-portal/internal/cache"
	"github.com/maxelo/hr-portal/internal/config"
	"github.com/maxelo/hr-portal/internal/events"
	"github.com/maxelo/hr-portal/internal/observability"
	"github.com/maxelo/hr-portal/internal/persistence"
	"github.com/maxelo/hr-portal/internal/repository"
	"github.com/maxelo/hr-portal/internal/service"
	"github.com/maxelo/hr-portal/internal/worker"
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

	sessionStore := cache.NewRedisStore(redis.Client, "session:")
	resetTokenStore := cache.NewRedisStore(redis.Client, "pwreset:")

	pool := pg.PoolHandle()
	employeeRepo := repository.NewEmployeeRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	leaveRepo := repository.NewLeaveRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	adminMessageRepo := repository.NewAdminMessageRepository(pool)
	todoRepo := repository.NewTodoRepository(pool)
	adminTodoRepo := repository.NewAdminTodoRepository(pool)
	documentRepo := repository.NewDocumentRepository(pool)
	announcementRepo := repository.NewAnnouncementRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	sessions := auth.NewSessionManager(sessionStore, employeeRepo, adminRepo,
		cfg.Auth.SessionLifetime(), cfg.Auth.SessionIdleTTL())
	sessionLoader := auth.NewSessionMiddleware(sessions, cfg.Session)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		EmployeeRepo: employeeRepo,
		AdminRepo:    adminRepo,
		TokenStore:   resetTokenStore,
		Dispatcher:   dispatcher,
	})
	dashboardService := service.NewDashboardService(service.DashboardDependencies{
		EmployeeRepo:     employeeRepo,
		LeaveRepo:        leaveRepo,
		MessageRepo:      messageRepo,
		AdminMessageRepo: adminMessageRepo,
		TodoRepo:         todoRepo,
		DocumentRepo:     documentRepo,
		AnnouncementRepo: announcementRepo,
	}, logger)
	leaveService := service.NewLeaveService(leaveRepo, dispatcher)
	messageService := service.NewMessageService(service.MessageDependencies{
		MessageRepo:      messageRepo,
		AdminMessageRepo: adminMessageRepo,
		EmployeeRepo:     employeeRepo,
		Dispatcher:       dispatcher,
	})
	todoService := service.NewTodoService(todoRepo, adminTodoRepo, employeeRepo)
	documentService := service.NewDocumentService(documentRepo, employeeRepo)
	employeeService := service.NewEmployeeService(cfg.Auth, employeeRepo, dispatcher)
	announcementService := service.NewAnnouncementService(announcementRepo)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: 20 << 20,
	})
	httptransport.RegisterMiddlewares(app, logger, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth:          handlers.NewAuthHandler(sessions, authService, sessionLoader),
		Profile:       handlers.NewProfileHandler(authService),
		Dashboard:     handlers.NewDashboardHandler(dashboardService),
		Leave:         handlers.NewLeaveHandler(leaveService),
		Message:       handlers.NewMessageHandler(messageService),
		Todo:          handlers.NewTodoHandler(todoService),
		Document:      handlers.NewDocumentHandler(documentService),
		Employee:      handlers.NewEmployeeHandler(employeeService),
		Announcement:  handlers.NewAnnouncementHandler(announcementService),
		SessionLoader: sessionLoader,
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
