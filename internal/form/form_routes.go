package form

import (
	"go-onboard/internal/middleware"
	"go-onboard/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	forms := r.Group("/forms")
	forms.Use(middleware.AuthMiddleware())
	{
		forms.POST("/:formType", middleware.RBACAuthorize(rbacService, "forms", "save"), middleware.Idempotency(rdb), handler.Save)
		forms.GET("/:formType/application/:applicationId", middleware.RBACAuthorize(rbacService, "forms", "read"), handler.GetByApplication)
		forms.GET("/:formType/:id", middleware.RBACAuthorize(rbacService, "forms", "read"), handler.GetByID)
	}
}
