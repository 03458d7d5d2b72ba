package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/courseforge/courseforge/internal/auth"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/logger"
	"github.com/courseforge/courseforge/internal/types"
)

// AuthMiddleware validates the bearer token and populates the request context
// with the caller's identity. Requests without a valid token are rejected
// before reaching any handler.
func AuthMiddleware(provider auth.Provider, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(types.HeaderAuthorization)
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ierr.NewErrorResponse(
				ierr.NewError("missing bearer token").
					WithHint("Authorization header with a bearer token is required").
					Mark(ierr.ErrPermissionDenied),
				false))
			return
		}

		claims, err := provider.ValidateToken(c.Request.Context(), token)
		if err != nil {
			log.Debugw("token validation failed", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ierr.NewErrorResponse(err, false))
			return
		}

		ctx := types.SetUserID(c.Request.Context(), claims.UserID)
		if claims.OrganizationID != "" {
			ctx = types.SetOrganizationID(ctx, claims.OrganizationID)
		}
		if claims.Role != "" {
			ctx = types.SetUserRole(ctx, claims.Role)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
