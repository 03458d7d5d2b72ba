package service

import (
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
)

// ServiceParams holds common dependencies for services.
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Cache  cache.Cache

	// Repositories
	OrgRepo    organization.Repository
	PlanRepo   plan.Repository
	SubRepo    subscription.Repository
	PromoRepo  promocode.Repository
	UserRepo   user.Repository
	CourseRepo course.Repository

	// Email is optional; services must tolerate a nil sender.
	Email email.Sender
}
