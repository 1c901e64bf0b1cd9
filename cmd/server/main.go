// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/catalog"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/config"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/database"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/i18n"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/jobs"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/router"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	setupLogging(cfg)

	// Load catalog
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load catalog")
	}

	// Initialize database
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close(db)

	// Run database migrations
	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db); err != nil {
			logrus.WithError(err).Fatal("Failed to run migrations")
		}
	}

	if err := database.SeedAdmin(db, cfg.Admin); err != nil {
		if errors.Is(err, database.ErrSchemaMissing) {
			logrus.WithError(err).Fatal("Admin table not found, enable DB_AUTO_MIGRATE or migrate the database first")
		}
		logrus.WithError(err).Fatal("Failed to seed admin user")
	}

	// Initialize i18n
	if err := i18n.Initialize(cfg.I18n.DefaultLocale); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize i18n")
	}

	// Cart idempotency
	var idempotency services.IdempotencyStore
	if cfg.Redis.Enabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logrus.WithError(err).Warn("Redis unreachable, cart idempotency may degrade")
		}
		cancel()

		idempotency = services.NewRedisIdempotencyStore(redisClient)
	} else {
		logrus.Info("Redis not configured, using in-memory cart idempotency")
		idempotency = services.NewMemoryIdempotencyStore()
	}

	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize storage")
	}

	notificationService := services.NewNotificationService(services.NewMailer(cfg.Email), cfg)

	// Background jobs
	scheduler := jobs.NewScheduler(
		services.NewAdminService(db),
		notificationService,
		services.NewWarrantyService(db, cat, storageService, notificationService),
		cfg.Admin.DigestRecipients,
	)
	if err := scheduler.Register(cfg.Admin.DigestSchedule); err != nil {
		logrus.WithError(err).Fatal("Failed to register jobs")
	}
	scheduler.Start()

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	r := router.Initialize(router.Dependencies{
		DB:            db,
		Config:        cfg,
		Catalog:       cat,
		Commerce:      services.NewHTTPCommerceClient(cfg.Commerce),
		Idempotency:   idempotency,
		Receipts:      storageService,
		Notifications: notificationService,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.WithField("port", cfg.Server.Port).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
	}

	scheduler.Stop()
	logrus.Info("Server exited")
}

func setupLogging(cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.Log.Format == "json" || cfg.IsProduction() {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if cfg.Log.File != "" {
		logrus.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAgeDays,
			Compress:   true,
		}))
	}
}
