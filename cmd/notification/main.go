package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/arflisch/companyapi/internal/company/config"
	"github.com/arflisch/companyapi/internal/company/events"
	"github.com/arflisch/companyapi/internal/company/notification"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := notification.NewHandler(logger)

	consumer := events.NewConsumer(cfg.KafkaBrokers, cfg.GroupID, cfg.Topic, logger)
	consumer.RegisterHandler(handler.Handle)
	consumer.Start(ctx)
	defer consumer.Close()

	logger.Info("notification service started",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.Topic),
		zap.String("group_id", cfg.GroupID),
	)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	cancel()
	logger.Info("notification service stopped",
		zap.Int64("notifications_processed", handler.Processed()),
	)
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
