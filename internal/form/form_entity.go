package form

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// FormDocument is one onboarding form instance. All form types share this
// table; the free-form payload lives in Data and the form_type column
// discriminates. The unique index makes save-or-create a true upsert.
type FormDocument struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ApplicationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_form_documents_application_type"`
	EmployeeID    uuid.UUID `gorm:"type:uuid;not null;index:idx_form_documents_employee"`
	FormType      string    `gorm:"type:varchar(60);not null;uniqueIndex:uq_form_documents_application_type"`

	Status string         `gorm:"type:varchar(20);not null;default:'draft'"`
	Data   datatypes.JSON `gorm:"type:jsonb"`

	ReviewComment *string    `gorm:"type:text"`
	ReviewedBy    *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
