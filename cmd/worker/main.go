package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/cv-portfolio/adapters/event"
	"github.com/khoahotran/cv-portfolio/adapters/persistence"
	"github.com/khoahotran/cv-portfolio/internal/config"
	"github.com/khoahotran/cv-portfolio/internal/domain/activity"
	"github.com/khoahotran/cv-portfolio/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Starting CV Portfolio activity archiver...")

	if len(cfg.Kafka.Brokers) == 0 {
		appLogger.Fatal("Kafka brokers not configured", nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Postgres", err)
	}
	defer dbPool.Close()

	archive := persistence.NewActivityArchive(dbPool, appLogger)

	// Kafka Consumer
	consumer := event.NewActivityReader(cfg)
	defer consumer.Close()

	appLogger.Info("Worker listening", zap.String("topic", event.TopicActivityEvents), zap.String("group", cfg.Kafka.ArchiveGroup))

	for {
		msg, err := consumer.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				appLogger.Info("Worker stopped")
				return
			}
			appLogger.Error("Failed to read message from Kafka", err)
			continue
		}

		var entry activity.Entry
		if err := json.Unmarshal(msg.Value, &entry); err != nil || entry.ID == "" {
			appLogger.Warn("Skipping malformed activity event", zap.String("key", string(msg.Key)), zap.Int64("offset", msg.Offset))
			commitMessage(ctx, consumer, msg, appLogger)
			continue
		}

		err = archive.Archive(ctx, entry)
		switch {
		case errors.Is(err, persistence.ErrAlreadyArchived):
			appLogger.Debug("Activity entry already archived", zap.String("entry_id", entry.ID))
		case err != nil:
			// left uncommitted so the group redelivers it
			continue
		default:
			appLogger.Debug("Archived activity entry", zap.String("entry_id", entry.ID), zap.String("action", entry.Action))
		}

		commitMessage(ctx, consumer, msg, appLogger)
	}
}

func commitMessage(ctx context.Context, consumer *kafka.Reader, msg kafka.Message, log logger.Logger) {
	if err := consumer.CommitMessages(ctx, msg); err != nil {
		log.Error("Failed to commit message", err, zap.Int64("offset", msg.Offset))
	}
}
