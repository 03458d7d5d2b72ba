package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"

	"github.com/courseforge/courseforge/internal/domain/organization"
	"github.com/courseforge/courseforge/internal/domain/plan"
	"github.com/courseforge/courseforge/internal/domain/subscription"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/service"
	"github.com/courseforge/courseforge/internal/testutil"
	"github.com/courseforge/courseforge/internal/types"
)

type RosterServiceSuite struct {
	suite.Suite
	ctx     context.Context
	stores  testutil.Stores
	service service.RosterService
	org     *organization.Organization
}

func TestRosterService(t *testing.T) {
	suite.Run(t, new(RosterServiceSuite))
}

func (s *RosterServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.stores = testutil.NewStores()
	s.service = service.NewRosterService(testutil.NewServiceParams(s.stores))

	s.org = &organization.Organization{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ORGANIZATION),
		Name:               "Acme Academy",
		Slug:               "acme-academy",
		OwnerID:            "user_owner",
		SubscriptionStatus: types.SubscriptionStatusActive,
		BaseModel:          types.GetDefaultBaseModel(s.ctx),
	}
	s.Require().NoError(s.stores.Organizations.Create(s.ctx, s.org))
}

func (s *RosterServiceSuite) subscribe(limits types.PlanLimits) {
	p := &plan.Plan{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN),
		Slug:      "starter",
		Name:      "Starter",
		Limits:    limits,
		IsActive:  true,
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.Require().NoError(s.stores.Plans.Create(s.ctx, p))
	s.Require().NoError(s.stores.Subscriptions.Create(s.ctx, &subscription.Subscription{
		ID:                      types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		OrganizationID:          s.org.ID,
		PlanID:                  p.ID,
		ProcessorSubscriptionID: "sub_ext_1",
		ProcessorStatus:         "active",
		BillingCycle:            types.BillingCycleMonthly,
		CurrentPeriodStart:      time.Now().UTC(),
		CurrentPeriodEnd:        time.Now().UTC().AddDate(0, 1, 0),
		BaseModel:               types.GetDefaultBaseModel(s.ctx),
	}))
}

func (s *RosterServiceSuite) TestAddInstructorUnderLimit() {
	s.subscribe(types.PlanLimits{MaxInstructors: lo.ToPtr(2)})

	member, err := s.service.AddInstructor(s.ctx, s.org.ID, "teach@acme.test", "Pat Teacher")
	s.NoError(err)
	s.Equal(types.UserRoleInstructor, member.Role)
	s.Equal(s.org.ID, member.OrganizationID)
}

func (s *RosterServiceSuite) TestAddInstructorAtLimitFails() {
	s.subscribe(types.PlanLimits{MaxInstructors: lo.ToPtr(1)})

	_, err := s.service.AddInstructor(s.ctx, s.org.ID, "one@acme.test", "One")
	s.Require().NoError(err)

	_, err = s.service.AddInstructor(s.ctx, s.org.ID, "two@acme.test", "Two")
	s.Error(err)
	s.True(ierr.IsLimitExceeded(err))
}

func (s *RosterServiceSuite) TestEnrollLearnerUnlimited() {
	s.subscribe(types.PlanLimits{MaxLearners: nil})

	for i := 0; i < 30; i++ {
		_, err := s.service.EnrollLearner(s.ctx, s.org.ID, "learn@acme.test", "Learner")
		s.Require().NoError(err)
	}

	n, err := s.stores.Users.CountByOrganizationAndRole(s.ctx, s.org.ID, types.UserRoleLearner)
	s.NoError(err)
	s.Equal(30, n)
}

func (s *RosterServiceSuite) TestEnrollLearnerRequiresEmail() {
	s.subscribe(types.PlanLimits{})

	_, err := s.service.EnrollLearner(s.ctx, s.org.ID, "", "No Email")
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *RosterServiceSuite) TestLearnerLimitDoesNotBlockInstructors() {
	s.subscribe(types.PlanLimits{
		MaxInstructors: lo.ToPtr(5),
		MaxLearners:    lo.ToPtr(1),
	})

	_, err := s.service.EnrollLearner(s.ctx, s.org.ID, "learn@acme.test", "Learner")
	s.Require().NoError(err)

	_, err = s.service.EnrollLearner(s.ctx, s.org.ID, "more@acme.test", "More")
	s.Error(err)
	s.True(ierr.IsLimitExceeded(err))

	_, err = s.service.AddInstructor(s.ctx, s.org.ID, "teach@acme.test", "Teacher")
	s.NoError(err)
}
