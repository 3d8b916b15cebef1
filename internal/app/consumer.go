package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-onboard/internal/employee"
	"go-onboard/internal/events"
	"go-onboard/internal/messaging/kafka/consumer"
	"go-onboard/internal/notification"
	"go-onboard/internal/shared/counter"
	"go-onboard/internal/task"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer projects application lifecycle events onto the task board
// and sends the matching notification emails.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := openGorm()
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	broker := os.Getenv("KAFKA_BROKER")
	if broker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	taskService := task.NewService(task.NewRepository(gormDB))
	employeeService := employee.NewService(
		employee.NewRepository(gormDB),
		counter.NewRepository(gormDB),
		nil,
	)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{broker},
		Topic:          events.ApplicationLifecycleTopic,
		GroupID:        "go-onboard-task-board",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go consumer.ConsumeApplicationLifecycle(
		ctx,
		reader,
		taskService,
		employeeService,
		notification.NewSMTPMailer(),
		logger,
	)

	<-ctx.Done()
	logger.Info("consumer shutting down")
	return nil
}
