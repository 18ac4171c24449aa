package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/pubsub"
	"go.uber.org/zap"

	"github.com/brightfold/api/internal/handlers"
	"github.com/brightfold/api/internal/platform/auth"
	"github.com/brightfold/api/internal/platform/config"
	"github.com/brightfold/api/internal/platform/jobs"
	pmongo "github.com/brightfold/api/internal/platform/mongodb"
	"github.com/brightfold/api/internal/platform/observability"
	mongorepo "github.com/brightfold/api/internal/repositories/mongodb"
	"github.com/brightfold/api/internal/services"
)

var (
	version   = "dev"
	commitSHA = "unknown"
)

const shutdownGrace = 15 * time.Second

func main() {
	ctx := context.Background()
	startedAt := time.Now().UTC()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("api")
	ctx = observability.WithLogger(ctx, logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	provider := pmongo.NewProvider(cfg.Mongo)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if closeErr := provider.Close(shutdownCtx); closeErr != nil {
			logger.Warn("mongodb close failed", zap.Error(closeErr))
		}
	}()

	registry, err := mongorepo.NewRegistry(provider, cfg.Mongo.QueryTimeout)
	if err != nil {
		logger.Fatal("failed to construct repositories", zap.Error(err))
	}
	if err := registry.EnsureIndexes(ctx); err != nil {
		logger.Fatal("failed to ensure indexes", zap.Error(err))
	}

	verifier, err := auth.NewFirebaseVerifier(ctx, cfg.Firebase)
	if err != nil {
		logger.Fatal("failed to initialise firebase", zap.Error(err))
	}

	sessions, err := auth.NewSessionManager(cfg.Session)
	if err != nil {
		logger.Fatal("failed to initialise session manager", zap.Error(err))
	}

	authn := auth.NewAuthenticator(verifier,
		auth.WithSessionManager(sessions),
		auth.WithUserLoader(verifier.GetUser),
		auth.WithAdminSecret(cfg.Security.AdminSecret, cfg.Security.AdminSecretHeader),
	)

	var orderEvents services.OrderEventPublisher
	if cfg.Events.Enabled {
		pubsubClient, pubsubErr := pubsub.NewClient(ctx, cfg.Events.ProjectID)
		if pubsubErr != nil {
			logger.Fatal("failed to initialise pubsub", zap.Error(pubsubErr))
		}
		defer func() {
			_ = pubsubClient.Close()
		}()

		publisher, pubErr := jobs.NewPubSubOrderEventPublisher(pubsubClient.Topic(cfg.Events.OrderTopic))
		if pubErr != nil {
			logger.Fatal("failed to initialise order event publisher", zap.Error(pubErr))
		}
		orderEvents = publisher
		logger.Info("order event publishing enabled", zap.String("topic", cfg.Events.OrderTopic))
	}

	serviceLogger := func(ctx context.Context, event string, fields map[string]any) {
		zapFields := make([]zap.Field, 0, len(fields))
		for key, value := range fields {
			zapFields = append(zapFields, zap.Any(key, value))
		}
		observability.FromContext(ctx).Info(event, zapFields...)
	}

	orderService, err := services.NewOrderService(services.OrderServiceDeps{
		Orders:            registry.Orders(),
		Counters:          registry.Counters(),
		Plans:             registry.PricingPlans(),
		StrictTransitions: cfg.Server.StrictTransitions,
		Events:            orderEvents,
		Logger:            serviceLogger,
	})
	if err != nil {
		logger.Fatal("failed to construct order service", zap.Error(err))
	}

	dashboardService, err := services.NewDashboardService(services.DashboardServiceDeps{
		Dashboard: registry.Dashboard(),
		Plans:     registry.PricingPlans(),
	})
	if err != nil {
		logger.Fatal("failed to construct dashboard service", zap.Error(err))
	}

	contentService, err := services.NewContentService(services.ContentServiceDeps{
		Banners:      registry.Banners(),
		Testimonials: registry.Testimonials(),
		FAQs:         registry.FAQs(),
		TeamMembers:  registry.TeamMembers(),
		Offerings:    registry.ServiceOfferings(),
		Projects:     registry.Projects(),
		Plans:        registry.PricingPlans(),
	})
	if err != nil {
		logger.Fatal("failed to construct content service", zap.Error(err))
	}

	catalogService, err := services.NewCatalogService(services.CatalogServiceDeps{
		Products:   registry.Products(),
		Categories: registry.Categories(),
	})
	if err != nil {
		logger.Fatal("failed to construct catalog service", zap.Error(err))
	}

	userService, err := services.NewUserService(services.UserServiceDeps{
		Users: registry.Users(),
	})
	if err != nil {
		logger.Fatal("failed to construct user service", zap.Error(err))
	}

	contactService, err := services.NewContactService(services.ContactServiceDeps{
		Contacts: registry.Contacts(),
	})
	if err != nil {
		logger.Fatal("failed to construct contact service", zap.Error(err))
	}

	healthHandlers := handlers.NewHealthHandlers(
		handlers.WithHealthBuildInfo(handlers.BuildInfo{
			Version:     version,
			CommitSHA:   commitSHA,
			Environment: cfg.Security.Environment,
			StartedAt:   startedAt,
		}),
		handlers.WithHealthRepository(registry.Health()),
	)

	orderHandlers := handlers.NewOrderHandlers(authn, orderService)
	dashboardHandlers := handlers.NewDashboardHandlers(authn, dashboardService)
	sessionHandlers := handlers.NewSessionHandlers(verifier, sessions, userService)
	meHandlers := handlers.NewMeHandlers(authn, userService, orderService)
	publicHandlers := handlers.NewPublicHandlers(contentService, catalogService, contactService)
	adminHandlers := handlers.NewAdminHandlers(authn, contentService, catalogService, contactService, userService, dashboardHandlers)

	router := handlers.NewRouter(
		handlers.WithMiddlewares(
			observability.InjectLoggerMiddleware(logger),
			observability.TraceMiddleware(),
			observability.RequestLoggerMiddleware(),
			observability.RecoveryMiddleware(logger),
			authn.Middleware(),
		),
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithPublicRoutes(publicHandlers.Routes),
		handlers.WithSessionRoutes(sessionHandlers.Routes),
		handlers.WithMeRoutes(meHandlers.Routes),
		handlers.WithOrderRoutes(orderHandlers.Routes),
		handlers.WithDashboardRoutes(dashboardHandlers.Routes),
		handlers.WithAdminRoutes(adminHandlers.Routes),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr), zap.String("version", version))
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errCh <- serveErr
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Fatal("server failed", zap.Error(err))
	case sig := <-stop:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
