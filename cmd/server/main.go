package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"github.com/courseforge/courseforge/internal/api/v1"
	"github.com/courseforge/courseforge/internal/auth"
	"github.com/courseforge/courseforge/internal/cache"
	"github.com/courseforge/courseforge/internal/config"
	"github.com/courseforge/courseforge/internal/domain/course"
	"github.com/courseforge/courseforge/internal/domain/organization"
	"github.com/courseforge/courseforge/internal/domain/plan"
	"github.com/courseforge/courseforge/internal/domain/promocode"
	"github.com/courseforge/courseforge/internal/domain/subscription"
	"github.com/courseforge/courseforge/internal/domain/user"
	"github.com/courseforge/courseforge/internal/email"
	"github.com/courseforge/courseforge/internal/logger"
	"github.com/courseforge/courseforge/internal/postgres"
	"github.com/courseforge/courseforge/internal/redis"
	pgrepo "github.com/courseforge/courseforge/internal/repository/postgres"
	"github.com/courseforge/courseforge/internal/rest"
	"github.com/courseforge/courseforge/internal/service"
	"github.com/courseforge/courseforge/internal/storage"
)

func main() {
	// A .env is convenience for local development only.
	_ = godotenv.Load()

	fx.New(
		fx.Provide(
			config.NewConfig,
			logger.NewLogger,
			newDB,
			newCache,
			newAuthProvider,
			email.NewSender,

			// repositories
			pgrepo.NewOrganizationRepository,
			pgrepo.NewPlanRepository,
			pgrepo.NewSubscriptionRepository,
			pgrepo.NewPromoCodeRepository,
			pgrepo.NewUserRepository,
			pgrepo.NewCourseRepository,

			newServiceParams,

			// services
			service.NewUsageService,
			service.NewPlanService,
			service.NewPromoCodeService,
			service.NewSubscriptionService,
			service.NewEntitlementService,
			service.NewBillingLifecycleService,
			service.NewOnboardingService,
			service.NewCheckoutService,
			service.NewCourseService,
			service.NewRosterService,
			service.NewOrganizationService,
			newMediaStore,

			// handlers
			v1.NewHealthHandler,
			v1.NewOrganizationHandler,
			v1.NewPlanHandler,
			v1.NewPromoCodeHandler,
			v1.NewEntitlementHandler,
			v1.NewCourseHandler,
			v1.NewMediaHandler,
			v1.NewCheckoutHandler,
			v1.NewWebhookHandler,

			newRouter,
		),
		fx.Invoke(initSentry, startServer),
	).Run()
}

// newDB opens the datastore with a short connect retry so the server survives
// a database that is still coming up.
func newDB(cfg *config.Configuration, log *logger.Logger) (*sql.DB, error) {
	var db *sql.DB
	operation := func() error {
		var err error
		db, err = postgres.NewDB(cfg, log)
		return err
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return db, nil
}

func newCache(cfg *config.Configuration, log *logger.Logger) cache.Cache {
	if cfg.Cache.Backend == "redis" {
		client, err := redis.NewClient(cfg, log)
		if err != nil {
			log.Errorw("redis unavailable, falling back to in-memory cache", "error", err)
			return cache.NewInMemoryCache()
		}
		return cache.NewRedisCache(client, log)
	}
	return cache.NewInMemoryCache()
}

func newAuthProvider(cfg *config.Configuration, log *logger.Logger) (auth.Provider, error) {
	return auth.NewSupabaseAuth(cfg, log)
}

func newMediaStore(cfg *config.Configuration, log *logger.Logger) (storage.MediaStore, error) {
	return storage.NewS3MediaStore(context.Background(), cfg, log)
}

func newServiceParams(
	log *logger.Logger,
	cfg *config.Configuration,
	c cache.Cache,
	orgRepo organization.Repository,
	planRepo plan.Repository,
	subRepo subscription.Repository,
	promoRepo promocode.Repository,
	userRepo user.Repository,
	courseRepo course.Repository,
	sender email.Sender,
) service.ServiceParams {
	return service.ServiceParams{
		Logger:     log,
		Config:     cfg,
		Cache:      c,
		OrgRepo:    orgRepo,
		PlanRepo:   planRepo,
		SubRepo:    subRepo,
		PromoRepo:  promoRepo,
		UserRepo:   userRepo,
		CourseRepo: courseRepo,
		Email:      sender,
	}
}

func newRouter(
	cfg *config.Configuration,
	log *logger.Logger,
	provider auth.Provider,
	health *v1.HealthHandler,
	org *v1.OrganizationHandler,
	planH *v1.PlanHandler,
	promo *v1.PromoCodeHandler,
	entitlement *v1.EntitlementHandler,
	courseH *v1.CourseHandler,
	media *v1.MediaHandler,
	checkout *v1.CheckoutHandler,
	hook *v1.WebhookHandler,
) *gin.Engine {
	return rest.NewRouter(cfg, log, provider, rest.Handlers{
		Health:       health,
		Organization: org,
		Plan:         planH,
		PromoCode:    promo,
		Entitlement:  entitlement,
		Course:       courseH,
		Media:        media,
		Checkout:     checkout,
		Webhook:      hook,
	})
}

func initSentry(cfg *config.Configuration, log *logger.Logger) error {
	if cfg.Sentry.DSN == "" {
		return nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.DSN,
		Environment:      cfg.Sentry.Environment,
		TracesSampleRate: cfg.Sentry.SampleRate,
	})
	if err != nil {
		log.Errorw("failed to initialize sentry", "error", err)
	}
	return nil
}

func startServer(lc fx.Lifecycle, cfg *config.Configuration, router *gin.Engine, log *logger.Logger) {
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			log.Infow("starting server", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalw("server failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping server")
			sentry.Flush(2 * time.Second)
			return srv.Shutdown(ctx)
		},
	})
}
