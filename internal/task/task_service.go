package task

import (
	"context"
	"errors"
	"strings"

	taskerrors "go-onboard/internal/task/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=task_service.go -destination=mock/task_service_mock.go -package=mock
type Service interface {
	CreateFromApproval(ctx context.Context, req CreateTaskRequest) (TaskResponse, error)
	List(ctx context.Context, column string) ([]TaskResponse, error)
	Move(ctx context.Context, id string, req MoveTaskRequest) (TaskResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("task.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("task.service")
	}
	return &service{repo: repo, logger: l}
}

// CreateFromApproval is invoked by the approval consumer and must be safe
// to replay: a second event for the same application returns the existing
// task instead of an error.
func (s *service) CreateFromApproval(ctx context.Context, req CreateTaskRequest) (TaskResponse, error) {
	s.logger.Debug("create task from approval",
		zap.String("application_id", req.ApplicationID),
		zap.String("employee_id", req.EmployeeID),
	)

	applicationID, err := uuid.Parse(req.ApplicationID)
	if err != nil {
		return TaskResponse{}, taskerrors.ErrInvalidApplicationID
	}
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return TaskResponse{}, taskerrors.ErrInvalidEmployeeID
	}

	t := &OnboardingTask{
		ID:            uuid.New(),
		ApplicationID: applicationID,
		EmployeeID:    employeeID,
		Title:         req.Title,
		Column:        ColumnTodo,
		DueDate:       req.DueDate,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		if isDuplicateTaskViolation(err) {
			existing, findErr := s.repo.FindByApplication(ctx, applicationID)
			if findErr != nil {
				s.logger.Error("find existing task after duplicate failed",
					zap.String("application_id", req.ApplicationID),
					zap.Error(findErr),
				)
				return TaskResponse{}, findErr
			}
			s.logger.Warn("task already exists for application, skipping",
				zap.String("application_id", req.ApplicationID),
			)
			return mapToResponse(*existing), nil
		}

		s.logger.Error("create task failed",
			zap.String("application_id", req.ApplicationID),
			zap.Error(err),
		)
		return TaskResponse{}, err
	}

	s.logger.Info("onboarding task created",
		zap.String("task_id", t.ID.String()),
		zap.String("application_id", req.ApplicationID),
	)
	return mapToResponse(*t), nil
}

func (s *service) List(ctx context.Context, column string) ([]TaskResponse, error) {
	if column != "" && !IsValidColumn(column) {
		return nil, taskerrors.ErrInvalidColumn
	}

	tasks, err := s.repo.FindAll(ctx, column)
	if err != nil {
		s.logger.Error("list tasks failed", zap.Error(err))
		return nil, err
	}

	return mapToListResponse(tasks), nil
}

func (s *service) Move(ctx context.Context, id string, req MoveTaskRequest) (TaskResponse, error) {
	taskID, err := uuid.Parse(id)
	if err != nil {
		return TaskResponse{}, taskerrors.ErrInvalidTaskID
	}
	if !IsValidColumn(req.Column) {
		return TaskResponse{}, taskerrors.ErrInvalidColumn
	}

	t, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TaskResponse{}, taskerrors.ErrTaskNotFound
		}
		s.logger.Error("find task failed", zap.String("task_id", id), zap.Error(err))
		return TaskResponse{}, err
	}

	t.Column = req.Column
	if req.AssignedTo != "" {
		assignee, err := uuid.Parse(req.AssignedTo)
		if err != nil {
			return TaskResponse{}, taskerrors.ErrInvalidAssigneeID
		}
		t.AssignedTo = &assignee
	}

	if err := s.repo.Update(ctx, t); err != nil {
		s.logger.Error("move task failed", zap.String("task_id", id), zap.Error(err))
		return TaskResponse{}, err
	}

	s.logger.Info("task moved",
		zap.String("task_id", id),
		zap.String("column", req.Column),
	)
	return mapToResponse(*t), nil
}

func isDuplicateTaskViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_onboarding_tasks_application"
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_onboarding_tasks_application")
}
