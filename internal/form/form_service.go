package form

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"go-onboard/internal/application"
	applicationerrors "go-onboard/internal/application/errors"
	formerrors "go-onboard/internal/form/errors"
	"go-onboard/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

//go:generate mockgen -source=form_service.go -destination=mock/form_service_mock.go -package=mock
type Service interface {
	Save(ctx context.Context, formType string, req SaveFormRequest) (FormResponse, error)
	GetByApplication(ctx context.Context, formType, applicationID string) (FormResponse, error)
	GetByID(ctx context.Context, formType, id string) (FormResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	appRepo  application.Repository
	registry *Registry
	rdb      *redis.Client
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	appRepo application.Repository,
	registry *Registry,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("form.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("form.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		appRepo:  appRepo,
		registry: registry,
		rdb:      rdb,
		logger:   l,
	}
}

// Save upserts one form document and, when the new status counts toward
// completion, records the completion on the aggregate in the same
// transaction. A crash can no longer leave the percentage stale.
func (s *service) Save(ctx context.Context, formType string, req SaveFormRequest) (FormResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("save form requested",
		zap.String("request_id", rid),
		zap.String("form_type", formType),
		zap.String("application_id", req.ApplicationID),
		zap.String("target_status", req.Status),
	)

	if _, ok := s.registry.Lookup(formType); !ok {
		s.logger.Warn("save form unknown type", zap.String("form_type", formType))
		return FormResponse{}, formerrors.ErrUnknownFormType
	}
	applicationUUID, err := uuid.Parse(req.ApplicationID)
	if err != nil {
		return FormResponse{}, formerrors.ErrInvalidApplicationID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return FormResponse{}, formerrors.ErrInvalidEmployeeID
	}
	if !IsEmployeeSettable(req.Status) {
		return FormResponse{}, formerrors.ErrInvalidStatus
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("save form begin tx failed", zap.Error(err))
		return FormResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qapp := s.appRepo.WithTx(tx)

	app, err := qapp.FindByIDForUpdate(ctx, req.ApplicationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return FormResponse{}, applicationerrors.ErrApplicationNotFound
		}
		s.logger.Error("save form load application failed", zap.Error(err))
		return FormResponse{}, err
	}
	if app.Status == application.StatusApproved {
		s.logger.Warn("save form rejected, application locked",
			zap.String("application_id", req.ApplicationID),
		)
		return FormResponse{}, applicationerrors.ErrApplicationLocked
	}
	if app.EmployeeID != employeeUUID {
		return FormResponse{}, formerrors.ErrEmployeeMismatch
	}

	existing, err := qtx.FindByApplicationAndTypeForUpdate(ctx, req.ApplicationID, formType)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		s.logger.Error("save form load existing failed", zap.Error(err))
		return FormResponse{}, err
	}

	if existing != nil {
		if !IsAllowedTransition(existing.Status, req.Status) {
			s.logger.Warn("save form invalid transition",
				zap.String("form_type", formType),
				zap.String("from_status", existing.Status),
				zap.String("to_status", req.Status),
			)
			return FormResponse{}, formerrors.ErrInvalidStatusTransition
		}
	} else if !IsInitialStatus(req.Status) {
		return FormResponse{}, formerrors.ErrInvalidStatusTransition
	}

	data, err := json.Marshal(req.Data)
	if err != nil {
		return FormResponse{}, err
	}

	f := &FormDocument{
		ID:            uuid.New(),
		ApplicationID: applicationUUID,
		EmployeeID:    employeeUUID,
		FormType:      formType,
		Status:        req.Status,
		Data:          data,
	}
	if err := qtx.Upsert(ctx, f); err != nil {
		s.logger.Error("save form persist failed", zap.Error(err))
		return FormResponse{}, err
	}

	if CountsTowardCompletion(req.Status) {
		appended, total, err := qapp.AppendCompletedForm(ctx, req.ApplicationID, formType)
		if err != nil {
			s.logger.Error("save form record completion failed", zap.Error(err))
			return FormResponse{}, err
		}
		if appended {
			pct := application.CompletionPercentage(total, s.registry.RequiredCount())
			if err := qapp.SetCompletionPercentage(ctx, req.ApplicationID, pct); err != nil {
				s.logger.Error("save form update completion failed", zap.Error(err))
				return FormResponse{}, err
			}
			s.logger.Debug("form completion recorded",
				zap.String("application_id", req.ApplicationID),
				zap.String("form_type", formType),
				zap.Int("completion_percentage", pct),
			)
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("save form commit failed", zap.Error(err))
		return FormResponse{}, err
	}

	s.invalidateBundle(ctx, req.EmployeeID)
	s.logger.Info("save form success",
		zap.String("request_id", rid),
		zap.String("form_id", f.ID.String()),
		zap.String("form_type", formType),
		zap.String("status", f.Status),
	)

	return mapToResponse(*f), nil
}

func (s *service) GetByApplication(ctx context.Context, formType, applicationID string) (FormResponse, error) {
	if _, ok := s.registry.Lookup(formType); !ok {
		return FormResponse{}, formerrors.ErrUnknownFormType
	}
	if _, err := uuid.Parse(applicationID); err != nil {
		return FormResponse{}, formerrors.ErrInvalidApplicationID
	}

	f, err := s.repo.FindByApplicationAndType(ctx, applicationID, formType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return FormResponse{}, formerrors.ErrFormNotFound
		}
		return FormResponse{}, err
	}
	return mapToResponse(*f), nil
}

func (s *service) GetByID(ctx context.Context, formType, id string) (FormResponse, error) {
	if _, ok := s.registry.Lookup(formType); !ok {
		return FormResponse{}, formerrors.ErrUnknownFormType
	}
	if _, err := uuid.Parse(id); err != nil {
		return FormResponse{}, formerrors.ErrInvalidFormID
	}

	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return FormResponse{}, formerrors.ErrFormNotFound
		}
		return FormResponse{}, err
	}
	if f.FormType != formType {
		return FormResponse{}, formerrors.ErrFormNotFound
	}
	return mapToResponse(*f), nil
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
