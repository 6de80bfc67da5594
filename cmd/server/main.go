package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/xwing-campaign/internal/api"
	"github.com/dom/xwing-campaign/internal/config"
	"github.com/dom/xwing-campaign/internal/fixtures"
	"github.com/dom/xwing-campaign/internal/repository/gormstore"
	"github.com/dom/xwing-campaign/internal/service"
	"github.com/dom/xwing-campaign/internal/worker"
	"gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize database
	logLevel := logger.Warn
	if !cfg.IsProduction() {
		logLevel = logger.Info
	}
	db, err := gormstore.NewConnection(cfg.DatabaseDriver, cfg.DatabaseURL, logLevel)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Initialize repositories
	repos := gormstore.NewRepositories(db)

	// Initialize services
	services := service.NewServices(repos, cfg)

	// Seed static data
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 2*time.Minute)
	source, err := fixtures.NewSource(startupCtx, cfg)
	if err != nil {
		log.Fatalf("failed to open fixtures: %v", err)
	}
	if source != nil {
		counts, err := fixtures.NewLoader(source, repos).LoadAll(startupCtx)
		if err != nil {
			log.Fatalf("failed to load fixtures: %v", err)
		}
		log.Printf("Fixtures ready: %d ships, %d upgrades, %d missions", counts.Ships, counts.Upgrades, counts.Missions)
	}
	if err := fixtures.SeedAdmin(startupCtx, repos.User, services.Auth, cfg.AdminUser, cfg.AdminPassword); err != nil {
		log.Fatalf("failed to seed admin account: %v", err)
	}
	cancelStartup()

	// Start background jobs
	purger, err := worker.NewSessionPurger(services.Auth, cfg.SessionPurgeInterval)
	if err != nil {
		log.Fatalf("failed to create scheduler: %v", err)
	}
	if err := purger.Start(); err != nil {
		log.Fatalf("failed to schedule session purge: %v", err)
	}

	// Initialize router
	router := api.NewRouter(services, cfg)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	if err := purger.Shutdown(); err != nil {
		log.Printf("ERROR [main] scheduler shutdown: %v", err)
	}
	if err := gormstore.Close(db); err != nil {
		log.Printf("ERROR [main] closing database: %v", err)
	}

	log.Println("Server stopped")
}
