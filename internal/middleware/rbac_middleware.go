package middleware

import (
	"net/http"

	"go-onboard/internal/domain"
	"go-onboard/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RBACService is a local interface so this package does not depend on the
// rbac package; anything with a matching Enforce method fits.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
			c.Abort()
			return
		}

		allowed, err := service.Enforce(domain.EnforceRequest{
			Role:     role,
			Resource: resource,
			Action:   action,
		})
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
			c.Abort()
			return
		}

		if !allowed {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to access this resource", gin.H{
				"required": resource + ":" + action,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
