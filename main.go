package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"blog-api/config"
	"blog-api/database"
	"blog-api/jobs"
	"blog-api/middleware"
	"blog-api/observability"
	"blog-api/routes"
	"blog-api/services"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "blog",
		Short:        "Blog publishing platform",
		SilenceUsage: true,
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, err := openDatabase()
			return err
		},
	}

	var seedCount int
	seed := &cobra.Command{
		Use:   "seed",
		Short: "Fill an empty blog with demo posts by the administrator",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, logger, err := openDatabase()
			if err != nil {
				return err
			}
			return database.SeedData(db, seedCount, logger)
		},
	}
	seed.Flags().IntVarP(&seedCount, "count", "n", 5, "number of posts to create")

	root.AddCommand(serve, migrate, seed)
	// `blog` alone serves
	root.RunE = serve.RunE
	return root
}

// openDatabase connects and migrates; only DATABASE_URL is required.
func openDatabase() (*gorm.DB, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFile)

	if cfg.DatabaseURL == "" {
		return nil, nil, errors.New("DATABASE_URL is not set")
	}

	db, err := database.Initialize(cfg.DatabaseURL, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, nil, err
	}
	return db, logger, nil
}

func runServer() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFile)

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	store, closeStore := services.OpenRevocationStore(cfg.RedisURL, logger)
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("error closing redis", "error", err)
		}
	}()

	sessions := services.NewSessionService(cfg.SecretKey, cfg.SessionTTL, store)
	emailService := services.NewEmailService(cfg)
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)

	gin.SetMode(cfg.GinMode)
	router := gin.New()

	err = routes.SetupRoutes(router, routes.Dependencies{
		DB:           db,
		Config:       cfg,
		EmailService: emailService,
		Sessions:     sessions,
		RateLimiter:  limiter,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	limiterCleanup := jobs.NewCleanupJob("rate-limiter", 10*time.Minute, func() int {
		return limiter.CleanupLimiters(10 * time.Minute)
	}, logger)
	limiterCleanup.Start()
	defer limiterCleanup.Stop()

	if memory, ok := store.(*services.MemoryRevocationStore); ok {
		revocationCleanup := jobs.NewCleanupJob("session-revocations", time.Hour, memory.Purge, logger)
		revocationCleanup.Start()
		defer revocationCleanup.Stop()
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting blog server", "port", cfg.Port)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
