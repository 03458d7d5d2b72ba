package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"

	"github.com/courseforge/courseforge/internal/api/dto"
	"github.com/courseforge/courseforge/internal/domain/organization"
	"github.com/courseforge/courseforge/internal/domain/plan"
	"github.com/courseforge/courseforge/internal/domain/subscription"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/service"
	"github.com/courseforge/courseforge/internal/testutil"
	"github.com/courseforge/courseforge/internal/types"
)

type CourseServiceSuite struct {
	suite.Suite
	ctx     context.Context
	stores  testutil.Stores
	service service.CourseService
	org     *organization.Organization
}

func TestCourseService(t *testing.T) {
	suite.Run(t, new(CourseServiceSuite))
}

func (s *CourseServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.stores = testutil.NewStores()
	s.service = service.NewCourseService(testutil.NewServiceParams(s.stores))

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

func (s *CourseServiceSuite) subscribe(maxCourses *int) {
	p := &plan.Plan{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN),
		Slug:      "starter",
		Name:      "Starter",
		Limits:    types.PlanLimits{MaxCourses: maxCourses},
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

func (s *CourseServiceSuite) actorCtx(userID string, role types.UserRole, orgID string) context.Context {
	ctx := types.SetUserID(s.ctx, userID)
	ctx = types.SetOrganizationID(ctx, orgID)
	return types.SetUserRole(ctx, role)
}

func (s *CourseServiceSuite) TestCreateCourseUnderLimit() {
	s.subscribe(lo.ToPtr(2))

	resp, err := s.service.CreateCourse(s.ctx, &dto.CreateCourseRequest{
		OrganizationID: s.org.ID,
		Title:          "Go From Scratch",
	})
	s.NoError(err)
	s.Equal("Go From Scratch", resp.Title)
}

func (s *CourseServiceSuite) TestCreateCourseAtLimitFails() {
	s.subscribe(lo.ToPtr(1))

	_, err := s.service.CreateCourse(s.ctx, &dto.CreateCourseRequest{
		OrganizationID: s.org.ID, Title: "First",
	})
	s.Require().NoError(err)

	_, err = s.service.CreateCourse(s.ctx, &dto.CreateCourseRequest{
		OrganizationID: s.org.ID, Title: "Second",
	})
	s.Error(err)
	s.True(ierr.IsLimitExceeded(err))
}

func (s *CourseServiceSuite) TestCreateCourseWithoutSubscriptionFails() {
	_, err := s.service.CreateCourse(s.ctx, &dto.CreateCourseRequest{
		OrganizationID: s.org.ID, Title: "No Plan",
	})
	s.Error(err)
	s.True(ierr.IsLimitExceeded(err))
}

func (s *CourseServiceSuite) TestInstructorMayCreateCourse() {
	s.subscribe(lo.ToPtr(5))
	ctx := s.actorCtx("user_instructor", types.UserRoleInstructor, s.org.ID)

	_, err := s.service.CreateCourse(ctx, &dto.CreateCourseRequest{
		OrganizationID: s.org.ID, Title: "Taught by Me",
	})
	s.NoError(err)
}

func (s *CourseServiceSuite) TestLearnerMayNotCreateCourse() {
	s.subscribe(lo.ToPtr(5))
	ctx := s.actorCtx("user_learner", types.UserRoleLearner, s.org.ID)

	_, err := s.service.CreateCourse(ctx, &dto.CreateCourseRequest{
		OrganizationID: s.org.ID, Title: "Nope",
	})
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))
}

func (s *CourseServiceSuite) TestCrossOrganizationDenied() {
	s.subscribe(lo.ToPtr(5))
	ctx := s.actorCtx("user_admin", types.UserRoleAdmin, "org_other")

	_, err := s.service.CreateCourse(ctx, &dto.CreateCourseRequest{
		OrganizationID: s.org.ID, Title: "Not Yours",
	})
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))
}

func (s *CourseServiceSuite) TestPublishCourseIsIdempotent() {
	s.subscribe(lo.ToPtr(5))
	created, err := s.service.CreateCourse(s.ctx, &dto.CreateCourseRequest{
		OrganizationID: s.org.ID, Title: "Publish Me",
	})
	s.Require().NoError(err)

	first, err := s.service.PublishCourse(s.ctx, created.ID)
	s.NoError(err)
	s.Require().NotNil(first.PublishedAt)

	second, err := s.service.PublishCourse(s.ctx, created.ID)
	s.NoError(err)
	s.Equal(first.PublishedAt.Unix(), second.PublishedAt.Unix())
}

func (s *CourseServiceSuite) TestDeleteCourse() {
	s.subscribe(lo.ToPtr(5))
	created, err := s.service.CreateCourse(s.ctx, &dto.CreateCourseRequest{
		OrganizationID: s.org.ID, Title: "Delete Me",
	})
	s.Require().NoError(err)

	s.NoError(s.service.DeleteCourse(s.ctx, created.ID))

	_, err = s.service.GetCourse(s.ctx, created.ID)
	s.True(ierr.IsNotFound(err))
}

func (s *CourseServiceSuite) TestDeletedCourseFreesQuota() {
	s.subscribe(lo.ToPtr(1))
	created, err := s.service.CreateCourse(s.ctx, &dto.CreateCourseRequest{
		OrganizationID: s.org.ID, Title: "First",
	})
	s.Require().NoError(err)
	s.Require().NoError(s.service.DeleteCourse(s.ctx, created.ID))

	_, err = s.service.CreateCourse(s.ctx, &dto.CreateCourseRequest{
		OrganizationID: s.org.ID, Title: "Second",
	})
	s.NoError(err)
}
