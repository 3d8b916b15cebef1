package app

import (
	"database/sql"
	"os"

	"go-onboard/internal/shared/connection"

	"gorm.io/gorm"
)

// openGorm connects to Postgres using the DB_* environment variables.
func openGorm() (*gorm.DB, error) {
	return connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
}

// openSQL is openGorm for processes that only need database/sql; the
// cleanup closes the underlying pool.
func openSQL() (*sql.DB, func(), error) {
	gormDB, err := openGorm()
	if err != nil {
		return nil, nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, err
	}

	return sqlDB, func() { sqlDB.Close() }, nil
}
