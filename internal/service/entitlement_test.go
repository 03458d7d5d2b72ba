package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"

	"github.com/courseforge/courseforge/internal/domain/course"
	"github.com/courseforge/courseforge/internal/domain/organization"
	"github.com/courseforge/courseforge/internal/domain/plan"
	"github.com/courseforge/courseforge/internal/domain/promocode"
	"github.com/courseforge/courseforge/internal/domain/subscription"
	"github.com/courseforge/courseforge/internal/service"
	"github.com/courseforge/courseforge/internal/testutil"
	"github.com/courseforge/courseforge/internal/types"
)

type EntitlementServiceSuite struct {
	suite.Suite
	ctx     context.Context
	stores  testutil.Stores
	service service.EntitlementService
}

func TestEntitlementService(t *testing.T) {
	suite.Run(t, new(EntitlementServiceSuite))
}

func (s *EntitlementServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.stores = testutil.NewStores()
	s.service = service.NewEntitlementService(testutil.NewServiceParams(s.stores))
}

func (s *EntitlementServiceSuite) seedOrg(status types.SubscriptionStatus) *organization.Organization {
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

func (s *EntitlementServiceSuite) seedPlanAndSubscription(orgID string, limits types.PlanLimits) *plan.Plan {
	p := &plan.Plan{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN),
		Slug:      "starter",
		Name:      "Starter",
		Limits:    limits,
		IsActive:  true,
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.Require().NoError(s.stores.Plans.Create(s.ctx, p))

	sub := &subscription.Subscription{
		ID:                      types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		OrganizationID:          orgID,
		PlanID:                  p.ID,
		ProcessorSubscriptionID: "sub_ext_1",
		ProcessorStatus:         "active",
		BillingCycle:            types.BillingCycleMonthly,
		CurrentPeriodStart:      time.Now().UTC(),
		CurrentPeriodEnd:        time.Now().UTC().AddDate(0, 0, 30),
		BaseModel:               types.GetDefaultBaseModel(s.ctx),
	}
	s.Require().NoError(s.stores.Subscriptions.Create(s.ctx, sub))
	return p
}

func (s *EntitlementServiceSuite) seedCourses(orgID string, n int) {
	for i := 0; i < n; i++ {
		c := &course.Course{
			ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COURSE),
			OrganizationID: orgID,
			Title:          "Course",
			BaseModel:      types.GetDefaultBaseModel(s.ctx),
		}
		s.Require().NoError(s.stores.Courses.Create(s.ctx, c))
	}
}

func (s *EntitlementServiceSuite) TestUnknownOrganizationDenies() {
	resp, err := s.service.CheckFeatureLimit(s.ctx, "org_missing", types.ResourceCourses)
	s.NoError(err)
	s.False(resp.Allowed)
	s.Equal(0, resp.Current)
	s.Nil(resp.Max)
}

func (s *EntitlementServiceSuite) TestNoSubscriptionDenies() {
	org := s.seedOrg(types.SubscriptionStatusTrial)

	resp, err := s.service.CheckFeatureLimit(s.ctx, org.ID, types.ResourceCourses)
	s.NoError(err)
	s.False(resp.Allowed)
	s.Equal(0, resp.Current)
	s.Nil(resp.Max)
}

func (s *EntitlementServiceSuite) TestUnderLimitAllows() {
	org := s.seedOrg(types.SubscriptionStatusActive)
	s.seedPlanAndSubscription(org.ID, types.PlanLimits{MaxCourses: lo.ToPtr(5)})
	s.seedCourses(org.ID, 4)

	resp, err := s.service.CheckFeatureLimit(s.ctx, org.ID, types.ResourceCourses)
	s.NoError(err)
	s.True(resp.Allowed)
	s.Equal(4, resp.Current)
	s.Equal(5, *resp.Max)
}

func (s *EntitlementServiceSuite) TestAtLimitDenies() {
	org := s.seedOrg(types.SubscriptionStatusActive)
	s.seedPlanAndSubscription(org.ID, types.PlanLimits{MaxCourses: lo.ToPtr(2)})
	s.seedCourses(org.ID, 2)

	// The comparison is strict: current == max blocks the next creation.
	resp, err := s.service.CheckFeatureLimit(s.ctx, org.ID, types.ResourceCourses)
	s.NoError(err)
	s.False(resp.Allowed)
	s.Equal(2, resp.Current)
	s.Equal(2, *resp.Max)
}

func (s *EntitlementServiceSuite) TestNilLimitIsUnlimited() {
	org := s.seedOrg(types.SubscriptionStatusActive)
	s.seedPlanAndSubscription(org.ID, types.PlanLimits{MaxCourses: nil})
	s.seedCourses(org.ID, 250)

	resp, err := s.service.CheckFeatureLimit(s.ctx, org.ID, types.ResourceCourses)
	s.NoError(err)
	s.True(resp.Allowed)
	s.Equal(250, resp.Current)
	s.Nil(resp.Max)
}

func (s *EntitlementServiceSuite) TestLifetimeLimitsFromRedemption() {
	org := s.seedOrg(types.SubscriptionStatusLifetime)

	pc := &promocode.PromoCode{
		ID:   types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PROMO_CODE),
		Code: "LTD2025",
		Type: types.PromoCodeTypeLifetimeDeal,
		LifetimeLimits: &types.PlanLimits{
			MaxCourses:     lo.ToPtr(10),
			MaxInstructors: lo.ToPtr(3),
		},
		ValidFrom: time.Now().UTC().Add(-time.Hour),
		IsActive:  true,
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.Require().NoError(s.stores.PromoCodes.Create(s.ctx, pc))
	s.Require().NoError(s.stores.PromoCodes.CreateRedemption(s.ctx, &promocode.Redemption{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REDEMPTION),
		PromoCodeID:    pc.ID,
		OrganizationID: org.ID,
		UserID:         org.OwnerID,
		RedeemedAt:     time.Now().UTC(),
	}))

	s.seedCourses(org.ID, 9)

	resp, err := s.service.CheckFeatureLimit(s.ctx, org.ID, types.ResourceCourses)
	s.NoError(err)
	s.True(resp.Allowed)
	s.Equal(9, resp.Current)
	s.Equal(10, *resp.Max)

	// Learners have no override entry, which means unlimited.
	resp, err = s.service.CheckFeatureLimit(s.ctx, org.ID, types.ResourceLearners)
	s.NoError(err)
	s.True(resp.Allowed)
	s.Nil(resp.Max)
}

func (s *EntitlementServiceSuite) TestLifetimeWithoutRedemptionFailsClosed() {
	// An org marked lifetime whose redemption cannot be resolved gets no
	// limits at all rather than unlimited access.
	org := s.seedOrg(types.SubscriptionStatusLifetime)

	resp, err := s.service.CheckFeatureLimit(s.ctx, org.ID, types.ResourceCourses)
	s.NoError(err)
	s.False(resp.Allowed)
	s.Nil(resp.Max)
}

func (s *EntitlementServiceSuite) TestInvalidResourceErrors() {
	_, err := s.service.CheckFeatureLimit(s.ctx, "org_any", types.ResourceType("widgets"))
	s.Error(err)
}
