package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go-onboard/internal/employee"
	"go-onboard/internal/events"
	"go-onboard/internal/notification"
	"go-onboard/internal/task"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeApplicationLifecycle projects approved applications onto the
// onboarding task board and sends the matching notification emails.
// Task creation is idempotent, so replayed messages are safe to commit.
func ConsumeApplicationLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	taskService task.Service,
	employeeService employee.Service,
	mailer notification.Mailer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.application_lifecycle")
	log.Info("application lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("application lifecycle consumer stopped")
				return
			}
			log.Error("fetch application lifecycle message failed", zap.Error(err))
			continue
		}

		var probe struct {
			EventType string `json:"event_type"`
		}
		if err := json.Unmarshal(msg.Value, &probe); err != nil {
			log.Error("decode lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		switch probe.EventType {
		case "application_approved":
			if err := handleApproved(ctx, msg.Value, taskService, employeeService, mailer, log); err != nil {
				log.Error("handle application_approved failed", zap.Error(err))
				continue
			}
		case "application_submitted":
			handleSubmitted(ctx, msg.Value, employeeService, mailer, log)
		default:
			log.Warn("unknown lifecycle event type, skipping",
				zap.String("event_type", probe.EventType),
			)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit application lifecycle message failed", zap.Error(err))
			continue
		}
	}
}

func handleApproved(
	ctx context.Context,
	payload []byte,
	taskService task.Service,
	employeeService employee.Service,
	mailer notification.Mailer,
	log *zap.Logger,
) error {
	var event events.ApplicationApprovedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}

	title := fmt.Sprintf("Onboard employee %s", event.EmployeeID)
	employeeEmail := ""
	employeeName := ""
	if empl, err := employeeService.GetByID(ctx, event.EmployeeID); err == nil {
		title = fmt.Sprintf("Onboard %s", empl.FullName)
		employeeEmail = empl.Email
		employeeName = empl.FullName
	} else {
		log.Warn("employee lookup failed for approved application",
			zap.String("employee_id", event.EmployeeID),
			zap.Error(err),
		)
	}

	if _, err := taskService.CreateFromApproval(ctx, task.CreateTaskRequest{
		ApplicationID: event.ApplicationID,
		EmployeeID:    event.EmployeeID,
		Title:         title,
	}); err != nil {
		return err
	}

	// Email delivery is best effort; the task is already durable.
	if mailer != nil && employeeEmail != "" {
		if err := mailer.SendApplicationApproved(employeeEmail, employeeName); err != nil {
			log.Error("send approval email failed",
				zap.String("employee_id", event.EmployeeID),
				zap.Error(err),
			)
		}
	}

	log.Info("onboarding task created from application_approved event",
		zap.String("application_id", event.ApplicationID),
		zap.String("employee_id", event.EmployeeID),
	)
	return nil
}

func handleSubmitted(
	ctx context.Context,
	payload []byte,
	employeeService employee.Service,
	mailer notification.Mailer,
	log *zap.Logger,
) {
	var event events.ApplicationSubmittedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		log.Error("decode application_submitted event failed", zap.Error(err))
		return
	}

	hrInbox := os.Getenv("HR_NOTIFY_EMAIL")
	if mailer == nil || hrInbox == "" {
		log.Info("application submitted, no hr inbox configured",
			zap.String("application_id", event.ApplicationID),
		)
		return
	}

	employeeName := event.EmployeeID
	if empl, err := employeeService.GetByID(ctx, event.EmployeeID); err == nil {
		employeeName = empl.FullName
	}

	if err := mailer.SendApplicationSubmitted(hrInbox, employeeName); err != nil {
		log.Error("send submission notification failed",
			zap.String("application_id", event.ApplicationID),
			zap.Error(err),
		)
		return
	}

	log.Info("hr notified of submitted application",
		zap.String("application_id", event.ApplicationID),
	)
}
