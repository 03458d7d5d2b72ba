package rest

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	v1 "github.com/courseforge/courseforge/internal/api/v1"
	"github.com/courseforge/courseforge/internal/config"
	"github.com/courseforge/courseforge/internal/logger"
)

func newTestRouter() *gin.Engine {
	return NewRouter(config.GetDefaultConfig(), logger.GetLogger(), nil, Handlers{
		Health:       &v1.HealthHandler{},
		Organization: &v1.OrganizationHandler{},
		Plan:         &v1.PlanHandler{},
		PromoCode:    &v1.PromoCodeHandler{},
		Entitlement:  &v1.EntitlementHandler{},
		Course:       &v1.CourseHandler{},
		Media:        &v1.MediaHandler{},
		Checkout:     &v1.CheckoutHandler{},
		Webhook:      &v1.WebhookHandler{},
	})
}

func TestRouterMountsBillingBoundary(t *testing.T) {
	routes := newTestRouter().Routes()
	has := func(method, path string) bool {
		return lo.ContainsBy(routes, func(r gin.RouteInfo) bool {
			return r.Method == method && r.Path == path
		})
	}

	// The payment processor and storefront are configured against these exact
	// edge-function paths.
	assert.True(t, has("POST", "/functions/v1/stripe-webhook"))
	assert.True(t, has("POST", "/functions/v1/create-checkout-session"))

	assert.True(t, has("GET", "/health"))
	assert.True(t, has("GET", "/v1/plans"))
	assert.True(t, has("POST", "/v1/organizations"))
}
