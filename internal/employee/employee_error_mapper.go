package employee

import (
	"errors"
	"strings"

	employeeerrors "go-onboard/internal/employee/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// uniqueConstraints maps Postgres constraint names to the domain error the
// caller should see. The string fallback covers drivers that flatten
// PgError into plain text.
var uniqueConstraints = map[string]error{
	"uq_employee_number": employeeerrors.ErrEmployeeNumberAlreadyExists,
	"uq_employee_email":  employeeerrors.ErrEmployeeAlreadyExists,
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if mapped, ok := uniqueConstraints[pgErr.ConstraintName]; ok {
			return mapped
		}
		return err
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "duplicate key value") {
		for name, mapped := range uniqueConstraints {
			if strings.Contains(msg, name) {
				return mapped
			}
		}
	}

	return err
}
