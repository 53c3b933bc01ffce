package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/arflisch/companyapi/internal/company/cache"
	"github.com/arflisch/companyapi/internal/company/commands"
	"github.com/arflisch/companyapi/internal/company/config"
	"github.com/arflisch/companyapi/internal/company/db"
	"github.com/arflisch/companyapi/internal/company/events"
	"github.com/arflisch/companyapi/internal/company/metrics"
	"go.uber.org/zap"
)

func main() {
	logger := initLogger()
	defer func(logger *zap.Logger) {
		err := logger.Sync()
		if err != nil {
			logger.Error("failed to sync logger", zap.Error(err))
		}
	}(logger)

	cfg, err := config.Load(configPath())
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	repo, err := db.NewRepository(&db.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}()

	store := cache.NewMemoryStore(cfg.CacheCapacity)
	defer store.Stop()
	cacheSvc := cache.NewService(store, logger, cfg.CompanyTTL(), cfg.CollectionTTL())

	recorder, err := metrics.NewRecorder(logger, cfg.MetricsWindow(), cfg.MetricsSweep())
	if err != nil {
		logger.Fatal("failed to initialize metrics", zap.Error(err))
	}
	recorder.Start()
	defer recorder.Stop()

	producer, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
	if err != nil {
		logger.Fatal("failed to initialize Kafka producer", zap.Error(err))
	}
	defer producer.Close()

	companySvc := commands.NewService(repo, cacheSvc, producer, recorder, logger)

	// Warm the listing cache so the first read after startup is served
	// without a store round trip.
	if _, err := companySvc.GetAllCompanies(context.Background()); err != nil {
		logger.Warn("failed to warm company listing cache", zap.Error(err))
	}

	logger.Info("company service started")
	waitForShutdown(logger)
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return filepath.Join("internal", "company", "config", "config.yaml")
}

// waitForShutdown blocks until an interrupt or SIGTERM is received.
func waitForShutdown(logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
}
