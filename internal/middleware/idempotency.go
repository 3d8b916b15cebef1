package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-onboard/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Idempotency short-circuits repeated POSTs carrying the same
// Idempotency-Key header. A short-lived SetNX lock rejects concurrent
// duplicates; the handler is responsible for caching the final response
// under the cache key and releasing the lock.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		userID := c.GetString("user_id")

		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), userID, idempKey)
		lockKey := cacheKey + ":lock"

		if val, err := rdb.Get(c.Request.Context(), cacheKey).Result(); err == nil {
			var cached any
			_ = json.Unmarshal([]byte(val), &cached)
			response.Success(c, http.StatusOK, cached, nil)
			c.Abort()
			return
		}

		// Lock expiry keeps a crashed request from wedging the key forever.
		isNew, _ := rdb.SetNX(c.Request.Context(), lockKey, "locked", 30*time.Second).Result()
		if !isNew {
			response.Error(c, http.StatusConflict, "PROCESSING",
				"Your request is still being processed, please wait.", nil)
			c.Abort()
			return
		}

		c.Set("idempotency_cache_key", cacheKey)
		c.Set("idempotency_lock_key", lockKey)

		c.Next()
	}
}
