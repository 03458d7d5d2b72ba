package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courseforge/courseforge/internal/service"
	"github.com/courseforge/courseforge/internal/types"
)

// EntitlementHandler exposes the quota gate and usage counts.
type EntitlementHandler struct {
	entitlements service.EntitlementService
	usage        service.UsageService
}

func NewEntitlementHandler(entitlements service.EntitlementService, usage service.UsageService) *EntitlementHandler {
	return &EntitlementHandler{entitlements: entitlements, usage: usage}
}

// CheckFeatureLimit handles GET /v1/organizations/:id/limits/:resource.
func (h *EntitlementHandler) CheckFeatureLimit(c *gin.Context) {
	resource := types.ResourceType(c.Param("resource"))
	resp, err := h.entitlements.CheckFeatureLimit(c.Request.Context(), c.Param("id"), resource)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetUsage handles GET /v1/organizations/:id/usage.
func (h *EntitlementHandler) GetUsage(c *gin.Context) {
	counts, err := h.usage.GetUsageCounts(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, counts)
}
