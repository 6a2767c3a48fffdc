package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/tutorhub/tutorhub/internal/api"
	"github.com/tutorhub/tutorhub/internal/app"
	"github.com/tutorhub/tutorhub/internal/config"
	"github.com/tutorhub/tutorhub/internal/service"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := app.OpenPool(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if cfg.RunMigrations {
		migrator, err := app.NewMigrator(pool, cfg.MigrationsDir)
		if err != nil {
			logger.Fatal("Failed to create migrator", zap.Error(err))
		}
		if err := migrator.Run(ctx); err != nil {
			logger.Fatal("Failed to apply migrations", zap.Error(err))
		}
		migrator.Close()
	}

	db := service.NewDB(pool)
	notifications := service.NewNotificationService(db, logger)
	sessions := service.NewSessionService(db, notifications, logger)
	requests := service.NewRequestService(db, notifications, logger)
	enrollments := service.NewEnrollmentService(db, notifications, logger)

	handler := api.NewHandler(sessions, requests, enrollments, notifications, logger)
	server := api.NewServer(handler)

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down")
		server.Shutdown(context.Background())
	}()

	logger.Info("Starting server",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("environment", cfg.Environment),
	)

	if err := server.Start(cfg.HTTPAddr); err != nil {
		logger.Info("Server stopped", zap.Error(err))
	}
}
