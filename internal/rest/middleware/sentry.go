package middleware

import (
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/courseforge/courseforge/internal/config"
	"github.com/courseforge/courseforge/internal/types"
)

// SentryMiddleware returns a middleware that captures errors and performance data
func SentryMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	if cfg.Sentry.DSN == "" {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})
}

// SentryOrganizationContextMiddleware tags the Sentry scope with the
// organization and user once auth has populated the request context. Add this
// after AuthMiddleware on private routes.
func SentryOrganizationContextMiddleware(c *gin.Context) {
	hub := sentrygin.GetHubFromContext(c)
	if hub == nil {
		c.Next()
		return
	}
	ctx := c.Request.Context()
	if organizationID := types.GetOrganizationID(ctx); organizationID != "" {
		hub.Scope().SetTag("organization_id", organizationID)
	}
	if userID := types.GetUserID(ctx); userID != "" {
		hub.Scope().SetTag("user_id", userID)
	}
	c.Next()
}
