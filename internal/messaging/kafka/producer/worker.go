package producer

import (
	"context"
	"time"

	"go-onboard/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const drainBatchSize = 50

// ProcessOutboxEvents polls the outbox table and relays pending events to
// Kafka until the context is cancelled. One drain runs immediately so a
// restarted worker does not sit on a backlog for a full poll interval.
func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer *kafkago.Writer,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}

	log := logger.Named("kafka.producer.worker")
	log.Info("outbox worker started", zap.Duration("poll_interval", pollInterval))

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		if err := drainOutbox(ctx, repo, writer, log); err != nil {
			log.Error("outbox drain failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			log.Info("outbox worker stopped")
			return
		case <-ticker.C:
		}
	}
}

// drainOutbox publishes one batch of pending events. Events are marked
// individually so a single broker refusal never blocks the rest of the
// batch, and failed events stay pending for the retry sweep.
func drainOutbox(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer *kafkago.Writer,
	logger *zap.Logger,
) error {
	events, err := repo.ListPending(ctx, drainBatchSize)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	var sent, failed int
	for _, event := range events {
		if err := publishEvent(ctx, writer, event); err != nil {
			failed++
			logger.Error("publish outbox event failed",
				zap.String("outbox_id", event.ID),
				zap.String("event_type", event.EventType),
				zap.Error(err),
			)
			_ = repo.MarkFailed(ctx, event.ID, err.Error())
			continue
		}

		if err := repo.MarkSent(ctx, event.ID); err != nil {
			logger.Error("mark outbox sent failed",
				zap.String("outbox_id", event.ID),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	logger.Info("outbox drain finished",
		zap.Int("sent", sent),
		zap.Int("failed", failed),
		zap.Int("batch", len(events)),
	)

	return nil
}
