package application

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Application struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID        uuid.UUID `gorm:"type:uuid;not null;index:idx_applications_employee"`
	ApplicationNumber string    `gorm:"type:varchar(20);uniqueIndex"`

	Status               string         `gorm:"type:varchar(20);not null;default:'draft';index:idx_applications_status"`
	CompletedForms       pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
	CompletionPercentage int            `gorm:"type:int;not null;default:0"`

	ReviewComments *string    `gorm:"type:text"`
	ReviewedBy     *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt     *time.Time
	ApprovedAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
