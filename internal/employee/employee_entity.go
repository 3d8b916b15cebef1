package employee

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeNumber string    `gorm:"type:varchar(20);uniqueIndex:uq_employee_number"`
	FullName       string
	Email          string `gorm:"uniqueIndex:uq_employee_email"`
	Phone          string
	Position       string
	Department     string
	HireDate       time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
