package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/courseforge/courseforge/internal/config"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/logger"
)

// ErrorHandler converts errors attached via c.Error into the standard error
// envelope. Internal error chains are only exposed in development.
func ErrorHandler(cfg *config.Configuration, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := ierr.HTTPStatusFromErr(err)
		if status >= 500 {
			log.Errorw("request failed",
				"path", c.Request.URL.Path,
				"status", status,
				"error", err)
		}

		c.JSON(status, ierr.NewErrorResponse(err, cfg.IsDevelopment()))
	}
}
