package application

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	applicationerrors "go-onboard/internal/application/errors"
	"go-onboard/internal/events"
	"go-onboard/internal/messaging/kafka"
	"go-onboard/internal/shared/contextutil"
	"go-onboard/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const bundleCacheKeyPrefix = "applications:bundle:"

// BundleCacheKey is shared with the form module so form saves can
// invalidate the employee's cached bundle.
func BundleCacheKey(employeeID string) string {
	return bundleCacheKeyPrefix + employeeID
}

// FormSource is the surface the aggregate needs from the form store.
// Implemented by the form module; kept here so this package stays free of
// a dependency on it.
type FormSource interface {
	WithTx(tx *sql.Tx) FormSource
	SummariesByApplication(ctx context.Context, applicationID string) ([]FormSummary, error)
	MissingRequiredForms(ctx context.Context, applicationID string, required []string) ([]string, error)
	MarkUnderReview(ctx context.Context, applicationID string) error
}

//go:generate mockgen -source=application_service.go -destination=mock/application_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateApplicationRequest) (ApplicationResponse, error)
	GetByID(ctx context.Context, id string) (ApplicationResponse, error)
	GetBundleByEmployee(ctx context.Context, employeeID string) (BundleResponse, error)
	Submit(ctx context.Context, id, actorID string) (ApplicationResponse, error)
}

type service struct {
	db            *sql.DB
	repo          Repository
	counter       counter.Repository
	forms         FormSource
	outbox        kafka.OutboxRepository
	rdb           *redis.Client
	sf            *singleflight.Group
	requiredForms []string
	logger        *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	forms FormSource,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	requiredForms []string,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("application.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("application.service")
	}
	return &service{
		db:            db,
		repo:          repo,
		counter:       counterRepo,
		forms:         forms,
		outbox:        outboxRepo,
		rdb:           rdb,
		sf:            &singleflight.Group{},
		requiredForms: requiredForms,
		logger:        l,
	}
}

func (s *service) Create(ctx context.Context, req CreateApplicationRequest) (ApplicationResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create application requested",
		zap.String("request_id", rid),
		zap.String("employee_id", req.EmployeeID),
	)

	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return ApplicationResponse{}, applicationerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create application begin tx failed", zap.Error(err))
		return ApplicationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.ExistsForEmployee(ctx, req.EmployeeID)
	if err != nil {
		s.logger.Error("create application existence check failed", zap.Error(err))
		return ApplicationResponse{}, err
	}
	if exists {
		s.logger.Warn("create application duplicate attempt",
			zap.String("employee_id", req.EmployeeID),
		)
		return ApplicationResponse{}, applicationerrors.ErrApplicationExists
	}

	nextVal, err := s.counter.GetNextValue(ctx, "application_number")
	if err != nil {
		s.logger.Error("create application generate number failed", zap.Error(err))
		return ApplicationResponse{}, err
	}

	a := &Application{
		ID:                uuid.New(),
		EmployeeID:        employeeUUID,
		ApplicationNumber: fmt.Sprintf("APP-%06d", nextVal),
		Status:            StatusDraft,
		CompletedForms:    []string{},
	}

	if err := qtx.Create(ctx, a); err != nil {
		s.logger.Error("create application persist failed", zap.Error(err))
		return ApplicationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create application commit failed", zap.Error(err))
		return ApplicationResponse{}, err
	}

	s.invalidateBundle(ctx, req.EmployeeID)
	s.logger.Info("create application success",
		zap.String("request_id", rid),
		zap.String("application_id", a.ID.String()),
		zap.String("application_number", a.ApplicationNumber),
	)

	return mapToResponse(*a), nil
}

func (s *service) GetByID(ctx context.Context, id string) (ApplicationResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ApplicationResponse{}, applicationerrors.ErrInvalidApplicationID
	}

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ApplicationResponse{}, applicationerrors.ErrApplicationNotFound
		}
		return ApplicationResponse{}, err
	}
	return mapToResponse(*a), nil
}

func (s *service) GetBundleByEmployee(ctx context.Context, employeeID string) (BundleResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return BundleResponse{}, applicationerrors.ErrInvalidEmployeeID
	}

	cacheKey := BundleCacheKey(employeeID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp BundleResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// Singleflight collapses concurrent bundle loads for the same
	// employee into a single database round-trip.
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		a, err := s.repo.FindByEmployee(ctx, employeeID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return BundleResponse{}, applicationerrors.ErrApplicationNotFound
			}
			return BundleResponse{}, err
		}

		forms, err := s.forms.SummariesByApplication(ctx, a.ID.String())
		if err != nil {
			return BundleResponse{}, err
		}

		resp := BundleResponse{
			Application: mapToResponse(*a),
			Forms:       forms,
		}

		if s.rdb != nil {
			if payload, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, payload, 30*time.Second)
			}
		}

		return resp, nil
	})

	if err != nil {
		return BundleResponse{}, err
	}

	return v.(BundleResponse), nil
}

func (s *service) Submit(ctx context.Context, id, actorID string) (ApplicationResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("submit application requested",
		zap.String("request_id", rid),
		zap.String("application_id", id),
		zap.String("actor_id", actorID),
	)

	if _, err := uuid.Parse(id); err != nil {
		return ApplicationResponse{}, applicationerrors.ErrInvalidApplicationID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit application begin tx failed", zap.Error(err))
		return ApplicationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	a, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ApplicationResponse{}, applicationerrors.ErrApplicationNotFound
		}
		return ApplicationResponse{}, err
	}

	if a.Status == StatusApproved {
		return ApplicationResponse{}, applicationerrors.ErrApplicationLocked
	}
	if !IsAllowedTransition(a.Status, StatusSubmitted) {
		s.logger.Warn("submit application invalid transition",
			zap.String("application_id", id),
			zap.String("from_status", a.Status),
		)
		return ApplicationResponse{}, applicationerrors.ErrInvalidStatusTransition
	}

	qforms := s.forms.WithTx(tx)

	missing, err := qforms.MissingRequiredForms(ctx, id, s.requiredForms)
	if err != nil {
		s.logger.Error("submit application required forms check failed", zap.Error(err))
		return ApplicationResponse{}, err
	}
	if len(missing) > 0 {
		s.logger.Warn("submit application required forms incomplete",
			zap.String("application_id", id),
			zap.Strings("missing_forms", missing),
		)
		return ApplicationResponse{}, applicationerrors.ErrRequiredFormsIncomplete
	}

	a.Status = StatusSubmitted
	if err := qtx.Update(ctx, a); err != nil {
		s.logger.Error("submit application persist failed", zap.Error(err))
		return ApplicationResponse{}, err
	}

	// Hand the documents to HR in the same commit that submits the
	// application, so every counted form starts review from under_review.
	if err := qforms.MarkUnderReview(ctx, id); err != nil {
		s.logger.Error("submit application cascade forms failed", zap.Error(err))
		return ApplicationResponse{}, err
	}

	if s.outbox != nil {
		event := events.ApplicationSubmittedEvent{
			EventType:            "application_submitted",
			RequestID:            rid,
			ApplicationID:        a.ID.String(),
			EmployeeID:           a.EmployeeID.String(),
			CompletionPercentage: a.CompletionPercentage,
			OccurredAt:           time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return ApplicationResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "application",
			AggregateID:   a.ID.String(),
			EventType:     event.EventType,
			Topic:         events.ApplicationLifecycleTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("submit application outbox persist failed", zap.Error(err))
			return ApplicationResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit application commit failed", zap.Error(err))
		return ApplicationResponse{}, err
	}

	s.invalidateBundle(ctx, a.EmployeeID.String())
	s.logger.Info("submit application success",
		zap.String("request_id", rid),
		zap.String("application_id", id),
	)

	return mapToResponse(*a), nil
}

func (s *service) invalidateBundle(ctx context.Context, employeeID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, BundleCacheKey(employeeID)).Err(); err != nil {
		s.logger.Error("invalidate bundle cache failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
	}
}
