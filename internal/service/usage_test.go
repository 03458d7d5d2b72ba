package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/courseforge/courseforge/internal/domain/course"
	"github.com/courseforge/courseforge/internal/domain/user"
	"github.com/courseforge/courseforge/internal/service"
	"github.com/courseforge/courseforge/internal/testutil"
	"github.com/courseforge/courseforge/internal/types"
)

type UsageServiceSuite struct {
	suite.Suite
	ctx     context.Context
	stores  testutil.Stores
	service service.UsageService
}

func TestUsageService(t *testing.T) {
	suite.Run(t, new(UsageServiceSuite))
}

func (s *UsageServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.stores = testutil.NewStores()
	s.service = service.NewUsageService(testutil.NewServiceParams(s.stores))
}

func (s *UsageServiceSuite) seed(orgID string, courses, instructors, learners int) {
	for i := 0; i < courses; i++ {
		s.Require().NoError(s.stores.Courses.Create(s.ctx, &course.Course{
			ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COURSE),
			OrganizationID: orgID,
			Title:          "Course",
			BaseModel:      types.GetDefaultBaseModel(s.ctx),
		}))
	}
	seedMember := func(role types.UserRole) {
		s.Require().NoError(s.stores.Users.Create(s.ctx, &user.User{
			ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PROFILE),
			Email:          "member@acme.test",
			OrganizationID: orgID,
			Role:           role,
			BaseModel:      types.GetDefaultBaseModel(s.ctx),
		}))
	}
	for i := 0; i < instructors; i++ {
		seedMember(types.UserRoleInstructor)
	}
	for i := 0; i < learners; i++ {
		seedMember(types.UserRoleLearner)
	}
}

func (s *UsageServiceSuite) TestGetUsageCounts() {
	s.seed("org_1", 3, 2, 7)
	s.seed("org_other", 5, 5, 5)

	counts, err := s.service.GetUsageCounts(s.ctx, "org_1")
	s.NoError(err)
	s.Equal(3, counts.Courses)
	s.Equal(2, counts.Instructors)
	s.Equal(7, counts.Learners)
}

func (s *UsageServiceSuite) TestGetUsageCountsEmptyOrganization() {
	counts, err := s.service.GetUsageCounts(s.ctx, "org_empty")
	s.NoError(err)
	s.Equal(0, counts.Courses)
	s.Equal(0, counts.Instructors)
	s.Equal(0, counts.Learners)
}

func (s *UsageServiceSuite) TestGetUsageCountsRequiresOrganization() {
	_, err := s.service.GetUsageCounts(s.ctx, "")
	s.Error(err)
}

func (s *UsageServiceSuite) TestGetResourceCount() {
	s.seed("org_1", 4, 1, 2)

	n, err := s.service.GetResourceCount(s.ctx, "org_1", types.ResourceCourses)
	s.NoError(err)
	s.Equal(4, n)

	n, err = s.service.GetResourceCount(s.ctx, "org_1", types.ResourceInstructors)
	s.NoError(err)
	s.Equal(1, n)

	n, err = s.service.GetResourceCount(s.ctx, "org_1", types.ResourceLearners)
	s.NoError(err)
	s.Equal(2, n)
}

func (s *UsageServiceSuite) TestGetResourceCountRejectsUnknownResource() {
	_, err := s.service.GetResourceCount(s.ctx, "org_1", types.ResourceType("widgets"))
	s.Error(err)
}

// Admins hold the org but are not a limit-bearing resource.
func (s *UsageServiceSuite) TestAdminsAreNotCounted() {
	s.seed("org_1", 0, 1, 1)
	s.Require().NoError(s.stores.Users.Create(s.ctx, &user.User{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PROFILE),
		Email:          "admin@acme.test",
		OrganizationID: "org_1",
		Role:           types.UserRoleAdmin,
		BaseModel:      types.GetDefaultBaseModel(s.ctx),
	}))

	counts, err := s.service.GetUsageCounts(s.ctx, "org_1")
	s.NoError(err)
	s.Equal(1, counts.Instructors)
	s.Equal(1, counts.Learners)
}
