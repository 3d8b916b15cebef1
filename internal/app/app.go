package app

import (
	"os"

	"go-onboard/internal/application"
	"go-onboard/internal/auth"
	"go-onboard/internal/employee"
	"go-onboard/internal/form"
	"go-onboard/internal/middleware"
	"go-onboard/internal/shared/connection"
	"go-onboard/internal/task"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func BuildApp(router *gin.Engine) error {
	router.Use(middleware.RequestID())

	gormDB, err := openGorm()
	if err != nil {
		return err
	}
	zap.L().Info("database connection established")

	if err := migrate(gormDB); err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	zap.L().Info("redis connection established")

	registry, err := loadRegistry()
	if err != nil {
		return err
	}

	return registerModules(router, sqlDB, gormDB, redisClient, registry)
}

func migrate(db *gorm.DB) error {
	if os.Getenv("DB_AUTO_MIGRATE") == "false" {
		return nil
	}

	if err := db.AutoMigrate(
		&employee.Employee{},
		&auth.User{},
		&application.Application{},
		&form.FormDocument{},
		&task.OnboardingTask{},
	); err != nil {
		return err
	}

	// counters and outbox_events are only touched through raw SQL, so
	// they get raw DDL instead of gorm entities.
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS counters (
			counter_type VARCHAR(50) PRIMARY KEY,
			last_value   BIGINT NOT NULL DEFAULT 0,
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS outbox_events (
			id             UUID PRIMARY KEY,
			request_id     TEXT,
			aggregate_type TEXT NOT NULL,
			aggregate_id   UUID NOT NULL,
			event_type     TEXT NOT NULL,
			topic          TEXT NOT NULL,
			payload        JSONB NOT NULL,
			status         TEXT NOT NULL DEFAULT 'pending',
			retry_count    INT NOT NULL DEFAULT 0,
			error_message  TEXT,
			next_retry_at  TIMESTAMPTZ,
			processed_at   TIMESTAMPTZ,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outbox_events_status_created
			ON outbox_events (status, created_at)`,
	}
	for _, stmt := range ddl {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}

// loadRegistry honors ONBOARD_REQUIRED_FORMS so deployments can run with
// a different required-form set than the built-in one.
func loadRegistry() (*form.Registry, error) {
	if csv := os.Getenv("ONBOARD_REQUIRED_FORMS"); csv != "" {
		return form.RegistryFromEnv(csv)
	}
	return form.DefaultRegistry(), nil
}
