package task

import (
	"time"

	"github.com/google/uuid"
)

// OnboardingTask is a board projection of an approved application.
// One task per application, enforced by the unique index.
type OnboardingTask struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ApplicationID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_onboarding_tasks_application"`
	EmployeeID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Title         string     `gorm:"type:varchar(255);not null"`
	Column        string     `gorm:"column:board_column;type:varchar(20);not null;default:'todo'"`
	AssignedTo    *uuid.UUID `gorm:"type:uuid"`
	DueDate       *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (OnboardingTask) TableName() string {
	return "onboarding_tasks"
}
