package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"fleettrack/pkg/response"
)

// RateLimiter throttles telemetry ingest per user. Limiters are kept in
// memory; a restart resets the buckets, which is acceptable for this use.
type RateLimiter struct {
	limiters sync.Map // uuid.UUID -> *rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewRateLimiter allows ratePerMin requests per minute with the given burst.
func NewRateLimiter(ratePerMin, burst int) *RateLimiter {
	return &RateLimiter{
		limit: rate.Limit(float64(ratePerMin) / 60.0),
		burst: burst,
	}
}

func (rl *RateLimiter) limiterFor(userID uuid.UUID) *rate.Limiter {
	if v, ok := rl.limiters.Load(userID); ok {
		return v.(*rate.Limiter)
	}
	limiter := rate.NewLimiter(rl.limit, rl.burst)
	actual, _ := rl.limiters.LoadOrStore(userID, limiter)
	return actual.(*rate.Limiter)
}

// Middleware must run after RequireUser so the user is known.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := CurrentUserID(c)
		if userID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("Authorization is missing"))
			return
		}
		if !rl.limiterFor(userID).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.Error("Too many requests"))
			return
		}
		c.Next()
	}
}
