package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"tipster/application"
	"tipster/config"
	"tipster/database"
	"tipster/domain/services"
	"tipster/infrastructure"
	"tipster/infrastructure/observability"
	"tipster/repository"
	"tipster/web"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ConfigureLogging applies the configured level and formatter to the global logger
func ConfigureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetOutput(os.Stdout)

	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	ConfigureLogging(cfg)

	log.WithField("environment", cfg.Environment).Info("Starting tipster...")

	// Initialize metrics
	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		log.WithError(err).Warn("Failed to initialize metrics, continuing without them")
	}

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	// Initialize event publishing. Without NATS only local handlers run.
	var natsClient *infrastructure.NATSClient
	if cfg.NATSServers != "" {
		log.WithField("servers", cfg.NATSServers).Info("Connecting to NATS...")
		natsClient = infrastructure.NewNATSClient(cfg.NATSServers)
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := natsClient.Connect(connectCtx)
		cancel()
		if err != nil {
			db.Close()
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
	} else {
		log.Info("NATS_SERVERS not set, events stay in-process")
	}

	eventPublisher := infrastructure.NewNATSEventPublisher(natsClient, infrastructure.NewEventSubjectMapper())
	if err := eventPublisher.EnsureDomainEventStream(); err != nil {
		log.WithError(err).Warn("Failed to ensure domain event stream")
	}

	if cfg.DiscordEnabled() {
		announcer, err := infrastructure.NewDiscordAnnouncer(cfg.DiscordWebhookID, cfg.DiscordWebhookToken)
		if err != nil {
			log.WithError(err).Warn("Failed to create Discord announcer, announcements disabled")
		} else {
			announcer.Register(eventPublisher)
			go announcer.Run(ctx)
			log.Info("Discord announcements enabled")
		}
	}

	uowFactory := infrastructure.NewUnitOfWorkFactory(db, eventPublisher)

	// Read paths use pool-backed repositories; writes go through the unit of work
	matchRepo := repository.NewMatchRepository(db)
	predictionRepo := repository.NewPredictionRepository(db)
	userScoreRepo := repository.NewUserScoreRepository(db)
	authRepo := repository.NewAuthorizedEmailRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	predictionService := services.NewPredictionService(matchRepo, predictionRepo, uowFactory, cfg.LockWindow)
	adminService := services.NewMatchAdminService(matchRepo, uowFactory)
	sessionGate := services.NewSessionGate(sessionRepo, authRepo)
	leaderboardService := services.NewLeaderboardService(userScoreRepo)
	log.Info("Services initialized successfully")

	handlers := web.NewHandlers(predictionService, adminService, sessionGate, leaderboardService)
	router := web.NewRouter(handlers, web.RouterOptions{SubmitRatePerMinute: cfg.SubmitRatePerMinute})
	server := web.NewServer(cfg.HTTPAddr, router)
	serverErr := server.Start()

	lockWatch := application.NewLockWatchWorker(uowFactory, cfg.LockWindow)
	stopLockWatch := lockWatch.Start(ctx, cfg.LockWatchInterval)

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		runErr = err
	}

	log.Info("Shutting down tipster...")
	stopLockWatch()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Error shutting down HTTP server")
	}

	if natsClient != nil {
		if err := natsClient.Close(); err != nil {
			log.WithError(err).Error("Error closing NATS connection")
		}
	}

	if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
		log.WithError(err).Error("Error shutting down metrics")
	}

	log.Info("Closing database connection...")
	db.Close()

	log.Info("Shutdown completed")
	return runErr
}
