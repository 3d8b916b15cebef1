package task

import (
	"go-onboard/internal/middleware"
	"go-onboard/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	tasks := r.Group("/tasks")
	tasks.Use(middleware.AuthMiddleware())
	{
		tasks.GET("", middleware.RBACAuthorize(rbacService, "tasks", "read"), handler.List)
		tasks.PATCH("/:id/move", middleware.RBACAuthorize(rbacService, "tasks", "move"), handler.Move)
	}
}
