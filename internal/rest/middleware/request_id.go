package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/courseforge/courseforge/internal/types"
)

// RequestIDMiddleware attaches a request id to the context and echoes it back
// in the response headers. An inbound id is honored so callers can correlate.
func RequestIDMiddleware(c *gin.Context) {
	requestID := c.GetHeader(types.HeaderRequestID)
	if requestID == "" {
		requestID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REQUEST)
	}

	ctx := types.SetRequestID(c.Request.Context(), requestID)
	c.Request = c.Request.WithContext(ctx)
	c.Header(types.HeaderRequestID, requestID)
	c.Next()
}
