package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"

	"github.com/courseforge/courseforge/internal/domain/organization"
	"github.com/courseforge/courseforge/internal/domain/plan"
	"github.com/courseforge/courseforge/internal/domain/promocode"
	"github.com/courseforge/courseforge/internal/domain/subscription"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/service"
	"github.com/courseforge/courseforge/internal/testutil"
	"github.com/courseforge/courseforge/internal/types"
)

type SubscriptionServiceSuite struct {
	suite.Suite
	ctx     context.Context
	stores  testutil.Stores
	service service.SubscriptionService
}

func TestSubscriptionService(t *testing.T) {
	suite.Run(t, new(SubscriptionServiceSuite))
}

func (s *SubscriptionServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.stores = testutil.NewStores()
	s.service = service.NewSubscriptionService(testutil.NewServiceParams(s.stores))
}

func (s *SubscriptionServiceSuite) seedOrg(status types.SubscriptionStatus) *organization.Organization {
	org := &organization.Organization{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ORGANIZATION),
		Name:               "Acme Academy",
		Slug:               "acme-academy",
		OwnerID:            "user_owner",
		SubscriptionStatus: status,
		BaseModel:          types.GetDefaultBaseModel(s.ctx),
	}
	s.Require().NoError(s.stores.Organizations.Create(s.ctx, org))
	return org
}

func (s *SubscriptionServiceSuite) seedPlan(slug string, limits types.PlanLimits) *plan.Plan {
	p := &plan.Plan{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN),
		Slug:      slug,
		Name:      slug,
		Limits:    limits,
		IsActive:  true,
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.Require().NoError(s.stores.Plans.Create(s.ctx, p))
	return p
}

func (s *SubscriptionServiceSuite) seedSub(orgID, planID, processorID string, createdAt time.Time) {
	base := types.GetDefaultBaseModel(s.ctx)
	base.CreatedAt = createdAt
	s.Require().NoError(s.stores.Subscriptions.Create(s.ctx, &subscription.Subscription{
		ID:                      types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		OrganizationID:          orgID,
		PlanID:                  planID,
		ProcessorSubscriptionID: processorID,
		ProcessorStatus:         "active",
		BillingCycle:            types.BillingCycleMonthly,
		CurrentPeriodStart:      createdAt,
		CurrentPeriodEnd:        createdAt.AddDate(0, 1, 0),
		BaseModel:               base,
	}))
}

func (s *SubscriptionServiceSuite) TestResolveUnknownOrganization() {
	_, err := s.service.Resolve(s.ctx, "org_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *SubscriptionServiceSuite) TestResolveTrialWithoutSubscription() {
	org := s.seedOrg(types.SubscriptionStatusTrial)

	resolved, err := s.service.Resolve(s.ctx, org.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusTrial, resolved.Status)
	s.Empty(resolved.PlanID)
	s.Nil(resolved.Limits)
}

func (s *SubscriptionServiceSuite) TestResolveActiveTakesPlanLimits() {
	org := s.seedOrg(types.SubscriptionStatusActive)
	p := s.seedPlan("starter", types.PlanLimits{MaxCourses: lo.ToPtr(5)})
	s.seedSub(org.ID, p.ID, "sub_ext_1", time.Now().UTC())

	resolved, err := s.service.Resolve(s.ctx, org.ID)
	s.NoError(err)
	s.Equal(p.ID, resolved.PlanID)
	s.Require().NotNil(resolved.Limits)
	s.Equal(5, *resolved.Limits.MaxCourses)
}

func (s *SubscriptionServiceSuite) TestResolveLatestSubscriptionWins() {
	org := s.seedOrg(types.SubscriptionStatusActive)
	old := s.seedPlan("starter", types.PlanLimits{MaxCourses: lo.ToPtr(5)})
	current := s.seedPlan("growth", types.PlanLimits{MaxCourses: lo.ToPtr(50)})

	now := time.Now().UTC()
	s.seedSub(org.ID, old.ID, "sub_ext_old", now.AddDate(0, -2, 0))
	s.seedSub(org.ID, current.ID, "sub_ext_new", now)

	resolved, err := s.service.Resolve(s.ctx, org.ID)
	s.NoError(err)
	s.Equal(current.ID, resolved.PlanID)
	s.Equal(50, *resolved.Limits.MaxCourses)
}

func (s *SubscriptionServiceSuite) TestResolveLifetimeUsesRedemptionLimits() {
	org := s.seedOrg(types.SubscriptionStatusLifetime)

	pc := &promocode.PromoCode{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PROMO_CODE),
		Code:           "LTD2025",
		Type:           types.PromoCodeTypeLifetimeDeal,
		LifetimeLimits: &types.PlanLimits{MaxCourses: lo.ToPtr(10)},
		ValidFrom:      time.Now().UTC().Add(-time.Hour),
		IsActive:       true,
		BaseModel:      types.GetDefaultBaseModel(s.ctx),
	}
	s.Require().NoError(s.stores.PromoCodes.Create(s.ctx, pc))
	s.Require().NoError(s.stores.PromoCodes.CreateRedemption(s.ctx, &promocode.Redemption{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REDEMPTION),
		PromoCodeID:    pc.ID,
		OrganizationID: org.ID,
		UserID:         org.OwnerID,
		RedeemedAt:     time.Now().UTC(),
	}))

	resolved, err := s.service.Resolve(s.ctx, org.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusLifetime, resolved.Status)
	s.Require().NotNil(resolved.Limits)
	s.Equal(10, *resolved.Limits.MaxCourses)
}

func (s *SubscriptionServiceSuite) TestResolveLifetimeWithoutRedemptionYieldsNoLimits() {
	org := s.seedOrg(types.SubscriptionStatusLifetime)

	resolved, err := s.service.Resolve(s.ctx, org.ID)
	s.NoError(err)
	s.Nil(resolved.Limits)
}

func (s *SubscriptionServiceSuite) TestResolveToleratesMissingPlan() {
	org := s.seedOrg(types.SubscriptionStatusActive)
	s.seedSub(org.ID, "plan_deleted", "sub_ext_1", time.Now().UTC())

	resolved, err := s.service.Resolve(s.ctx, org.ID)
	s.NoError(err)
	s.Equal("plan_deleted", resolved.PlanID)
	s.Nil(resolved.Limits)
}

func (s *SubscriptionServiceSuite) TestResolveRequiresOrganizationID() {
	_, err := s.service.Resolve(s.ctx, "")
	s.Error(err)
	s.True(ierr.IsValidation(err))
}
