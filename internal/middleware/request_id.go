package middleware

import (
	"go-onboard/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with a correlation id. Client-supplied ids
// are honored only when they are well-formed UUIDs, anything else is
// replaced so log queries never chase arbitrary attacker-chosen strings.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(rid); err != nil {
			rid = uuid.NewString()
		}

		c.Set("request_id", rid)
		c.Request = c.Request.WithContext(
			contextutil.WithRequestID(c.Request.Context(), rid),
		)
		c.Header(requestIDHeader, rid)

		c.Next()
	}
}
