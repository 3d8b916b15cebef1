package app

import (
	"database/sql"

	"go-onboard/internal/application"
	"go-onboard/internal/auth"
	"go-onboard/internal/employee"
	"go-onboard/internal/form"
	"go-onboard/internal/messaging/kafka"
	"go-onboard/internal/rbac"
	"go-onboard/internal/rbac/infra"
	"go-onboard/internal/review"
	"go-onboard/internal/shared/counter"
	"go-onboard/internal/task"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	registry *form.Registry,
) error {
	// --- Repositories ---
	applicationRepo := application.NewRepository(db)
	authRepo := auth.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	formRepo := form.NewRepository(db)
	outboxRepo := kafka.NewOutboxRepository(db)
	taskRepo := task.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService, err := rbac.NewService(enforcer)
	if err != nil {
		return err
	}

	// --- Services ---
	bundleSource := form.NewBundleSource(formRepo)
	applicationService := application.NewService(
		db, applicationRepo, counterRepo, bundleSource, outboxRepo, rdb,
		registry.RequiredNames(),
	)
	authService := auth.NewService(authRepo, employeeRepo, rdb, auth.NewSMTPMailer())
	employeeService := employee.NewService(employeeRepo, counterRepo, rdb)
	formService := form.NewService(db, formRepo, applicationRepo, registry, rdb)
	reviewService := review.NewService(db, applicationRepo, formRepo, registry, outboxRepo, rdb)
	taskService := task.NewService(taskRepo)

	// --- Handlers ---
	applicationHandler := application.NewHandler(applicationService)
	authHandler := auth.NewHandler(authService)
	employeeHandler := employee.NewHandler(employeeService)
	formHandler := form.NewHandlerWithRedis(formService, rdb)
	rbacHandler := rbac.NewHandler(rbacService)
	reviewHandler := review.NewHandler(reviewService)
	taskHandler := task.NewHandler(taskService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		application.RegisterRoutes(api, applicationHandler, rbacService)
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		form.RegisterRoutes(api, formHandler, rbacService, rdb)
		review.RegisterRoutes(api, reviewHandler, rbacService)
		task.RegisterRoutes(api, taskHandler, rbacService)
		rbac.RegisterRoutes(api, rbacHandler)
	}

	return nil
}
