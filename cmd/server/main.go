package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/api"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/catalog"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/checkout"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/config"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/notify"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/repository/postgres"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	logger.Info("Starting storefront API server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
	)

	// Initialize database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	repos := postgres.NewRepositories(db, logger)

	// Initialize session store
	redisClient, err := store.NewRedisClient(context.Background(), cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()
	sessions := store.NewRedisSessionStore(redisClient, cfg.Redis.SessionTTL, logger)

	// Initialize checkout service
	opener := checkout.NewOpener(checkout.DirectiveNavigator{}, cfg.WhatsApp.FallbackDelay, logger)
	notifier := notify.NewGateway(cfg.Notify, logger)
	checkoutSvc := checkout.NewService(repos, sessions, opener, notifier, cfg.WhatsApp, logger)

	// Initialize router
	router := api.NewRouter(cfg, repos, sessions, checkoutSvc, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Destination sync: run once on startup, then every 10 minutes
	syncCtx, syncCancel := context.WithCancel(context.Background())
	defer syncCancel()
	go catalog.RunDestinationSyncLoop(syncCtx, cfg, repos, logger)
	logger.Info("Destination sync job started (runs on startup and every 10 minutes)")

	logger.Info("Server started successfully", zap.String("address", srv.Addr))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
