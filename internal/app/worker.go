package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-onboard/internal/messaging/kafka"
	"go-onboard/internal/messaging/kafka/producer"
	"go-onboard/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker starts the outbox relay: poll the outbox table, publish to
// Kafka, block until a shutdown signal.
func RunWorker() error {
	logger := zap.L().Named("app.worker")

	sqlDB, cleanup, err := openSQL()
	if err != nil {
		return err
	}
	defer cleanup()

	broker := os.Getenv("KAFKA_BROKER")
	if broker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	writer, err := connection.ConnectKafkaWithRetry(broker, 5)
	if err != nil {
		return err
	}
	defer writer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go producer.ProcessOutboxEvents(
		ctx,
		kafka.NewOutboxRepository(sqlDB),
		writer,
		logger,
		3*time.Second,
	)

	<-ctx.Done()
	logger.Info("worker shutting down")
	return nil
}
