package rest

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/courseforge/courseforge/internal/api/v1"
	"github.com/courseforge/courseforge/internal/auth"
	"github.com/courseforge/courseforge/internal/config"
	"github.com/courseforge/courseforge/internal/logger"
	"github.com/courseforge/courseforge/internal/rest/middleware"
)

// Handlers bundles every route handler the router mounts.
type Handlers struct {
	Health       *v1.HealthHandler
	Organization *v1.OrganizationHandler
	Plan         *v1.PlanHandler
	PromoCode    *v1.PromoCodeHandler
	Entitlement  *v1.EntitlementHandler
	Course       *v1.CourseHandler
	Media        *v1.MediaHandler
	Checkout     *v1.CheckoutHandler
	Webhook      *v1.WebhookHandler
}

// NewRouter wires middleware and routes. The webhook route sits outside auth:
// its authenticity check is the signature verification.
func NewRouter(cfg *config.Configuration, log *logger.Logger, provider auth.Provider, handlers Handlers) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.RecoveryWithWriter(log.GetGinLogger()),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware(cfg),
		middleware.SentryMiddleware(cfg),
		middleware.LoggingMiddleware(log),
		middleware.ErrorHandler(cfg, log),
	)

	router.GET("/health", handlers.Health.Health)

	// The billing boundary keeps the edge-function paths the payment processor
	// and storefront are configured against.
	functions := router.Group("/functions/v1")
	{
		functions.POST("/stripe-webhook", handlers.Webhook.HandleStripeWebhook)

		checkoutLimiter := middleware.NewCheckoutRateLimiter(cfg)
		functions.POST("/create-checkout-session",
			middleware.AuthMiddleware(provider, log),
			middleware.SentryOrganizationContextMiddleware,
			checkoutLimiter.Middleware(),
			handlers.Checkout.CreateCheckoutSession)
	}

	public := router.Group("/v1")
	{
		public.GET("/plans", handlers.Plan.ListPlans)
		public.GET("/plans/:id", handlers.Plan.GetPlan)
		public.GET("/organizations/slug/:slug", handlers.Organization.GetOrganizationBySlug)
		public.GET("/promo-codes/validate/:code", handlers.PromoCode.ValidateCode)
	}

	private := router.Group("/v1")
	private.Use(
		middleware.AuthMiddleware(provider, log),
		middleware.SentryOrganizationContextMiddleware,
	)
	{
		private.POST("/organizations", handlers.Organization.CreateOrganization)
		private.GET("/organizations/:id", handlers.Organization.GetOrganization)
		private.GET("/organizations/slug-suggestion", handlers.Organization.SuggestSlug)
		private.PATCH("/organizations/:id/branding", handlers.Organization.UpdateBranding)

		private.GET("/organizations/:id/usage", handlers.Entitlement.GetUsage)
		private.GET("/organizations/:id/limits/:resource", handlers.Entitlement.CheckFeatureLimit)

		private.POST("/plans", handlers.Plan.CreatePlan)
		private.PATCH("/plans/:id", handlers.Plan.UpdatePlan)

		private.POST("/promo-codes", handlers.PromoCode.CreatePromoCode)
		private.POST("/promo-codes/apply-discount", handlers.PromoCode.ApplyDiscount)

		private.POST("/courses", handlers.Course.CreateCourse)
		private.GET("/courses/:id", handlers.Course.GetCourse)
		private.POST("/courses/:id/publish", handlers.Course.PublishCourse)
		private.DELETE("/courses/:id", handlers.Course.DeleteCourse)
		private.POST("/courses/:id/cover", handlers.Media.UploadCourseCover)
		private.GET("/organizations/:id/courses", handlers.Course.ListCourses)
		private.POST("/organizations/:id/instructors", handlers.Course.AddInstructor)
		private.POST("/organizations/:id/learners", handlers.Course.EnrollLearner)
	}

	return router
}
