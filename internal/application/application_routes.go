package application

import (
	"go-onboard/internal/middleware"
	"go-onboard/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	applications := r.Group("/applications")
	applications.Use(middleware.AuthMiddleware())
	{
		applications.POST("", middleware.RBACAuthorize(rbacService, "applications", "create"), handler.Create)
		applications.GET("/:id", middleware.RBACAuthorize(rbacService, "applications", "read"), handler.GetByID)
		applications.GET("/employee/:employeeId", middleware.RBACAuthorize(rbacService, "applications", "read"), handler.GetByEmployee)
		applications.POST("/:id/submit", middleware.RBACAuthorize(rbacService, "applications", "submit"), handler.Submit)
	}
}
