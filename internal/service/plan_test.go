package service_test

import (
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"

	"github.com/courseforge/courseforge/internal/api/dto"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/service"
	"github.com/courseforge/courseforge/internal/testutil"
	"github.com/courseforge/courseforge/internal/types"
)

type PlanServiceSuite struct {
	suite.Suite
	ctx     context.Context
	stores  testutil.Stores
	service service.PlanService
}

func TestPlanService(t *testing.T) {
	suite.Run(t, new(PlanServiceSuite))
}

func (s *PlanServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.stores = testutil.NewStores()
	s.service = service.NewPlanService(testutil.NewServiceParams(s.stores))
}

func (s *PlanServiceSuite) createPlan(slug string) *dto.PlanResponse {
	resp, err := s.service.CreatePlan(s.ctx, &dto.CreatePlanRequest{
		Slug:         slug,
		Name:         "Starter",
		PriceMonthly: 2900,
		PriceYearly:  29000,
		Limits:       types.PlanLimits{MaxCourses: lo.ToPtr(5)},
		IsActive:     true,
	})
	s.Require().NoError(err)
	return resp
}

func (s *PlanServiceSuite) TestCreateAndGet() {
	created := s.createPlan("starter")

	got, err := s.service.GetPlan(s.ctx, created.ID)
	s.NoError(err)
	s.Equal("starter", got.Slug)
	s.Equal(int64(2900), got.PriceMonthly)
	s.Equal(5, *got.Limits.MaxCourses)
}

func (s *PlanServiceSuite) TestDuplicateSlugRejected() {
	s.createPlan("starter")

	_, err := s.service.CreatePlan(s.ctx, &dto.CreatePlanRequest{
		Slug: "starter", Name: "Starter Again", IsActive: true,
	})
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *PlanServiceSuite) TestUpdateInvalidatesCache() {
	created := s.createPlan("starter")

	// Prime the cache.
	got, err := s.service.GetPlan(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(5, *got.Limits.MaxCourses)

	_, err = s.service.UpdatePlan(s.ctx, created.ID, &dto.UpdatePlanRequest{
		Limits: &types.PlanLimits{MaxCourses: lo.ToPtr(20)},
	})
	s.Require().NoError(err)

	got, err = s.service.GetPlan(s.ctx, created.ID)
	s.NoError(err)
	s.Equal(20, *got.Limits.MaxCourses)
}

func (s *PlanServiceSuite) TestUpdateRejectsNegativeLimit() {
	created := s.createPlan("starter")

	_, err := s.service.UpdatePlan(s.ctx, created.ID, &dto.UpdatePlanRequest{
		Limits: &types.PlanLimits{MaxCourses: lo.ToPtr(-1)},
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PlanServiceSuite) TestGetUnknownPlan() {
	_, err := s.service.GetPlan(s.ctx, "plan_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *PlanServiceSuite) TestListPlans() {
	s.createPlan("starter")
	s.createPlan("growth")

	resp, err := s.service.ListPlans(s.ctx, nil)
	s.NoError(err)
	s.Len(resp.Items, 2)
	s.Equal(2, resp.Pagination.Total)
}
