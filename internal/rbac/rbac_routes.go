package rbac

import (
	"go-onboard/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	group := r.Group("/rbac")
	group.Use(middleware.AuthMiddleware())
	{
		group.POST("/enforce", middleware.RoleMiddleware(RoleSuperAdmin), handler.Enforce)
	}
}
