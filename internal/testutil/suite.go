package testutil

import (
	"github.com/courseforge/courseforge/internal/cache"
	"github.com/courseforge/courseforge/internal/config"
	"github.com/courseforge/courseforge/internal/logger"
	"github.com/courseforge/courseforge/internal/service"
)

// Stores bundles every in-memory repository for a test.
type Stores struct {
	Organizations *InMemoryOrganizationStore
	Plans         *InMemoryPlanStore
	Subscriptions *InMemorySubscriptionStore
	PromoCodes    *InMemoryPromoCodeStore
	Users         *InMemoryUserStore
	Courses       *InMemoryCourseStore
}

// NewStores creates fresh empty stores.
func NewStores() Stores {
	return Stores{
		Organizations: NewInMemoryOrganizationStore(),
		Plans:         NewInMemoryPlanStore(),
		Subscriptions: NewInMemorySubscriptionStore(),
		PromoCodes:    NewInMemoryPromoCodeStore(),
		Users:         NewInMemoryUserStore(),
		Courses:       NewInMemoryCourseStore(),
	}
}

// NewServiceParams builds service params over in-memory stores for tests.
func NewServiceParams(stores Stores) service.ServiceParams {
	return service.ServiceParams{
		Logger:     logger.GetLogger(),
		Config:     config.GetDefaultConfig(),
		Cache:      cache.NewInMemoryCache(),
		OrgRepo:    stores.Organizations,
		PlanRepo:   stores.Plans,
		SubRepo:    stores.Subscriptions,
		PromoRepo:  stores.PromoCodes,
		UserRepo:   stores.Users,
		CourseRepo: stores.Courses,
	}
}
