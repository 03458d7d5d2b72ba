package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/courseforge/courseforge/internal/config"
	ierr "github.com/courseforge/courseforge/internal/errors"
)

// CheckoutRateLimiter limits checkout session creation per client IP. The
// limiter map is in-process; multi-instance deployments rate limit per
// instance, which is acceptable for an abuse brake.
type CheckoutRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewCheckoutRateLimiter creates the limiter from the configured requests per
// window.
func NewCheckoutRateLimiter(cfg *config.Configuration) *CheckoutRateLimiter {
	window := cfg.Stripe.CheckoutRateWindow
	limit := cfg.Stripe.CheckoutRateLimit
	return &CheckoutRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(float64(limit) / window.Seconds()),
		burst:    limit,
	}
}

func (l *CheckoutRateLimiter) limiterFor(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[ip] = lim
	}
	return lim
}

// Middleware rejects requests over the per-IP budget with 429.
func (l *CheckoutRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.limiterFor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ierr.NewErrorResponse(
				ierr.NewError("rate limit exceeded").
					WithHint("Too many checkout attempts, slow down").
					Mark(ierr.ErrInvalidOperation),
				false))
			return
		}
		c.Next()
	}
}
