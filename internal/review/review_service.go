package review

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-onboard/internal/application"
	applicationerrors "go-onboard/internal/application/errors"
	"go-onboard/internal/events"
	"go-onboard/internal/form"
	formerrors "go-onboard/internal/form/errors"
	"go-onboard/internal/messaging/kafka"
	reviewerrors "go-onboard/internal/review/errors"
	"go-onboard/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

//go:generate mockgen -source=review_service.go -destination=mock/review_service_mock.go -package=mock
type Service interface {
	ReviewForm(ctx context.Context, formType, formID string, req ReviewFormRequest) (form.FormResponse, error)
	UpdateStatus(ctx context.Context, applicationID string, req UpdateStatusRequest) (application.ApplicationResponse, error)
	FinalApprove(ctx context.Context, applicationID string, req FinalApproveRequest) (application.ApplicationResponse, error)
}

type service struct {
	db       *sql.DB
	appRepo  application.Repository
	formRepo form.Repository
	registry *form.Registry
	outbox   kafka.OutboxRepository
	rdb      *redis.Client
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	appRepo application.Repository,
	formRepo form.Repository,
	registry *form.Registry,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("review.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("review.service")
	}
	return &service{
		db:       db,
		appRepo:  appRepo,
		formRepo: formRepo,
		registry: registry,
		outbox:   outboxRepo,
		rdb:      rdb,
		logger:   l,
	}
}

// ReviewForm records a per-form decision, then promotes the application
// to under_review once every required form has a terminal decision. It
// never auto-approves the application.
func (s *service) ReviewForm(ctx context.Context, formType, formID string, req ReviewFormRequest) (form.FormResponse, error) {
	s.logger.Debug("review form requested",
		zap.String("form_type", formType),
		zap.String("form_id", formID),
		zap.String("decision", req.Decision),
	)

	// Decision is validated before any write happens.
	if req.Decision != form.StatusApproved && req.Decision != form.StatusRejected {
		s.logger.Warn("review form invalid decision", zap.String("decision", req.Decision))
		return form.FormResponse{}, reviewerrors.ErrInvalidDecision
	}
	if _, ok := s.registry.Lookup(formType); !ok {
		return form.FormResponse{}, formerrors.ErrUnknownFormType
	}
	if _, err := uuid.Parse(formID); err != nil {
		return form.FormResponse{}, formerrors.ErrInvalidFormID
	}
	reviewerUUID, err := uuid.Parse(req.ReviewedBy)
	if err != nil {
		return form.FormResponse{}, reviewerrors.ErrInvalidReviewerID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("review form begin tx failed", zap.Error(err))
		return form.FormResponse{}, err
	}
	defer tx.Rollback()

	qform := s.formRepo.WithTx(tx)
	qapp := s.appRepo.WithTx(tx)

	f, err := qform.FindByID(ctx, formID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return form.FormResponse{}, formerrors.ErrFormNotFound
		}
		return form.FormResponse{}, err
	}
	if f.FormType != formType {
		return form.FormResponse{}, formerrors.ErrFormNotFound
	}

	app, err := qapp.FindByIDForUpdate(ctx, f.ApplicationID.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return form.FormResponse{}, applicationerrors.ErrApplicationNotFound
		}
		return form.FormResponse{}, err
	}
	if app.Status == application.StatusApproved {
		return form.FormResponse{}, applicationerrors.ErrApplicationLocked
	}

	if !form.IsAllowedTransition(f.Status, req.Decision) {
		s.logger.Warn("review form not reviewable",
			zap.String("form_id", formID),
			zap.String("from_status", f.Status),
			zap.String("decision", req.Decision),
		)
		return form.FormResponse{}, reviewerrors.ErrFormNotReviewable
	}

	now := time.Now().UTC()
	var comment *string
	if req.Comment != "" {
		comment = &req.Comment
	}
	if err := qform.UpdateReview(ctx, formID, req.Decision, comment, reviewerUUID, now); err != nil {
		s.logger.Error("review form persist failed", zap.Error(err))
		return form.FormResponse{}, err
	}

	f.Status = req.Decision
	f.ReviewComment = comment
	f.ReviewedBy = &reviewerUUID
	f.ReviewedAt = &now

	promoted, err := s.maybePromote(ctx, qform, qapp, app)
	if err != nil {
		return form.FormResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("review form commit failed", zap.Error(err))
		return form.FormResponse{}, err
	}

	s.invalidateBundle(ctx, app.EmployeeID.String())
	s.logger.Info("review form success",
		zap.String("form_id", formID),
		zap.String("decision", req.Decision),
		zap.Bool("application_promoted", promoted),
	)

	return form.MapToResponse(*f), nil
}

// maybePromote moves the application to under_review once every required
// form holds a terminal decision. Runs inside the caller's transaction.
func (s *service) maybePromote(
	ctx context.Context,
	qform form.Repository,
	qapp application.Repository,
	app *application.Application,
) (bool, error) {
	if app.Status != application.StatusSubmitted {
		return false, nil
	}

	statuses, err := qform.StatusesByApplication(ctx, app.ID.String())
	if err != nil {
		s.logger.Error("review form status scan failed", zap.Error(err))
		return false, err
	}

	for _, name := range s.registry.RequiredNames() {
		status, ok := statuses[name]
		if !ok || !form.IsTerminal(status) {
			return false, nil
		}
	}

	app.Status = application.StatusUnderReview
	if err := qapp.Update(ctx, app); err != nil {
		s.logger.Error("promote application persist failed", zap.Error(err))
		return false, err
	}
	return true, nil
}

// UpdateStatus is the direct status overwrite surface. Transitions go
// through the central application state machine, and approval is
// reserved for FinalApprove so the cascade can never be skipped.
func (s *service) UpdateStatus(ctx context.Context, applicationID string, req UpdateStatusRequest) (application.ApplicationResponse, error) {
	s.logger.Debug("update application status requested",
		zap.String("application_id", applicationID),
		zap.String("target_status", req.Status),
	)

	if _, err := uuid.Parse(applicationID); err != nil {
		return application.ApplicationResponse{}, applicationerrors.ErrInvalidApplicationID
	}
	reviewerUUID, err := uuid.Parse(req.ReviewedBy)
	if err != nil {
		return application.ApplicationResponse{}, reviewerrors.ErrInvalidReviewerID
	}
	if !application.IsValidStatus(req.Status) {
		return application.ApplicationResponse{}, applicationerrors.ErrInvalidStatus
	}
	if req.Status == application.StatusApproved {
		return application.ApplicationResponse{}, reviewerrors.ErrApproveViaFinalOnly
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update status begin tx failed", zap.Error(err))
		return application.ApplicationResponse{}, err
	}
	defer tx.Rollback()

	qapp := s.appRepo.WithTx(tx)

	app, err := qapp.FindByIDForUpdate(ctx, applicationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return application.ApplicationResponse{}, applicationerrors.ErrApplicationNotFound
		}
		return application.ApplicationResponse{}, err
	}
	if app.Status == application.StatusApproved {
		return application.ApplicationResponse{}, applicationerrors.ErrApplicationLocked
	}
	if !application.IsAllowedTransition(app.Status, req.Status) {
		s.logger.Warn("update status invalid transition",
			zap.String("application_id", applicationID),
			zap.String("from_status", app.Status),
			zap.String("to_status", req.Status),
		)
		return application.ApplicationResponse{}, applicationerrors.ErrInvalidStatusTransition
	}

	now := time.Now().UTC()
	app.Status = req.Status
	app.ReviewedBy = &reviewerUUID
	app.ReviewedAt = &now
	if req.ReviewComments != "" {
		app.ReviewComments = &req.ReviewComments
	}

	if err := qapp.Update(ctx, app); err != nil {
		s.logger.Error("update status persist failed", zap.Error(err))
		return application.ApplicationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update status commit failed", zap.Error(err))
		return application.ApplicationResponse{}, err
	}

	s.invalidateBundle(ctx, app.EmployeeID.String())
	s.logger.Info("update status success",
		zap.String("application_id", applicationID),
		zap.String("status", req.Status),
	)

	return application.MapToResponse(*app), nil
}

// FinalApprove locks the whole application: the aggregate flips to
// approved with completion 100 and every form document is cascaded to
// approved in the same transaction. A per-application advisory lock
// serializes concurrent attempts, and re-running on an already-approved
// application converges to the same state without error.
func (s *service) FinalApprove(ctx context.Context, applicationID string, req FinalApproveRequest) (application.ApplicationResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("final approve requested",
		zap.String("request_id", rid),
		zap.String("application_id", applicationID),
	)

	if _, err := uuid.Parse(applicationID); err != nil {
		return application.ApplicationResponse{}, applicationerrors.ErrInvalidApplicationID
	}
	reviewerUUID, err := uuid.Parse(req.ReviewedBy)
	if err != nil {
		return application.ApplicationResponse{}, reviewerrors.ErrInvalidReviewerID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("final approve begin tx failed", zap.Error(err))
		return application.ApplicationResponse{}, err
	}
	defer tx.Rollback()

	qapp := s.appRepo.WithTx(tx)
	qform := s.formRepo.WithTx(tx)

	if err := qapp.AcquireApprovalLock(ctx, applicationID); err != nil {
		s.logger.Error("final approve acquire lock failed", zap.Error(err))
		return application.ApplicationResponse{}, err
	}

	app, err := qapp.FindByIDForUpdate(ctx, applicationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return application.ApplicationResponse{}, applicationerrors.ErrApplicationNotFound
		}
		return application.ApplicationResponse{}, err
	}

	now := time.Now().UTC()
	alreadyApproved := app.Status == application.StatusApproved

	if !alreadyApproved {
		if app.Status != application.StatusSubmitted && app.Status != application.StatusUnderReview {
			s.logger.Warn("final approve invalid state",
				zap.String("application_id", applicationID),
				zap.String("status", app.Status),
			)
			return application.ApplicationResponse{}, applicationerrors.ErrInvalidStatusTransition
		}

		app.Status = application.StatusApproved
		app.CompletionPercentage = 100
		app.ReviewedBy = &reviewerUUID
		app.ReviewedAt = &now
		app.ApprovedAt = &now
		if req.ReviewComments != "" {
			app.ReviewComments = &req.ReviewComments
		}

		if err := qapp.Update(ctx, app); err != nil {
			s.logger.Error("final approve persist failed", zap.Error(err))
			return application.ApplicationResponse{}, err
		}
	}

	// The cascade is safe to repeat: it only touches rows not yet approved.
	if err := qform.ApproveAll(ctx, applicationID, reviewerUUID, now); err != nil {
		s.logger.Error("final approve cascade failed", zap.Error(err))
		return application.ApplicationResponse{}, err
	}

	if !alreadyApproved && s.outbox != nil {
		event := events.ApplicationApprovedEvent{
			EventType:     "application_approved",
			RequestID:     rid,
			ApplicationID: app.ID.String(),
			EmployeeID:    app.EmployeeID.String(),
			ReviewedBy:    reviewerUUID.String(),
			OccurredAt:    now,
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return application.ApplicationResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "application",
			AggregateID:   app.ID.String(),
			EventType:     event.EventType,
			Topic:         events.ApplicationLifecycleTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("final approve outbox persist failed", zap.Error(err))
			return application.ApplicationResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("final approve commit failed", zap.Error(err))
		return application.ApplicationResponse{}, err
	}

	s.invalidateBundle(ctx, app.EmployeeID.String())
	s.logger.Info("final approve success",
		zap.String("request_id", rid),
		zap.String("application_id", applicationID),
		zap.Bool("already_approved", alreadyApproved),
	)

	return application.MapToResponse(*app), nil
}

func (s *service) invalidateBundle(ctx context.Context, employeeID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, application.BundleCacheKey(employeeID)).Err(); err != nil {
		s.logger.Error("invalidate bundle cache failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
	}
}
