package review

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
	reviews := r.Group("/reviews")
	reviews.Use(middleware.AuthMiddleware())
	{
		reviews.POST("/forms/:formType/:id", middleware.RBACAuthorize(rbacService, "reviews", "decide"), handler.ReviewForm)
	}

	applications := r.Group("/applications")
	applications.Use(middleware.AuthMiddleware())
	{
		applications.PUT("/:id/status", middleware.RBACAuthorize(rbacService, "reviews", "decide"), handler.UpdateStatus)
		applications.PUT("/:id/final-approve", middleware.RBACAuthorize(rbacService, "reviews", "approve"), handler.FinalApprove)
	}
}
