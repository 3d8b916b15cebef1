package task

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=task_repo.go -destination=mock/task_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, t *OnboardingTask) error
	FindAll(ctx context.Context, column string) ([]OnboardingTask, error)
	FindByID(ctx context.Context, id uuid.UUID) (*OnboardingTask, error)
	FindByApplication(ctx context.Context, applicationID uuid.UUID) (*OnboardingTask, error)
	Update(ctx context.Context, t *OnboardingTask) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, t *OnboardingTask) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) FindAll(ctx context.Context, column string) ([]OnboardingTask, error) {
	var tasks []OnboardingTask
	query := r.db.WithContext(ctx).Order("created_at ASC")
	if column != "" {
		query = query.Where("board_column = ?", column)
	}
	err := query.Find(&tasks).Error
	return tasks, err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*OnboardingTask, error) {
	var t OnboardingTask
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) FindByApplication(ctx context.Context, applicationID uuid.UUID) (*OnboardingTask, error) {
	var t OnboardingTask
	err := r.db.WithContext(ctx).First(&t, "application_id = ?", applicationID).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) Update(ctx context.Context, t *OnboardingTask) error {
	return r.db.WithContext(ctx).Save(t).Error
}
