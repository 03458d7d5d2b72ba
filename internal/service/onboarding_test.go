package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"

	"github.com/courseforge/courseforge/internal/api/dto"
	"github.com/courseforge/courseforge/internal/domain/organization"
	"github.com/courseforge/courseforge/internal/domain/promocode"
	"github.com/courseforge/courseforge/internal/domain/user"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/service"
	"github.com/courseforge/courseforge/internal/testutil"
	"github.com/courseforge/courseforge/internal/types"
)

type OnboardingServiceSuite struct {
	suite.Suite
	ctx     context.Context
	stores  testutil.Stores
	service service.OnboardingService
}

func TestOnboardingService(t *testing.T) {
	suite.Run(t, new(OnboardingServiceSuite))
}

func (s *OnboardingServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.stores = testutil.NewStores()
	s.service = service.NewOnboardingService(testutil.NewServiceParams(s.stores))
}

func (s *OnboardingServiceSuite) seedOwner() *user.User {
	owner := &user.User{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PROFILE),
		Email:     "founder@acme.test",
		Role:      types.UserRoleLearner,
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.Require().NoError(s.stores.Users.Create(s.ctx, owner))
	return owner
}

func (s *OnboardingServiceSuite) seedLifetimeCode(code string) *promocode.PromoCode {
	pc := &promocode.PromoCode{
		ID:   types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PROMO_CODE),
		Code: code,
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
	return pc
}

func (s *OnboardingServiceSuite) TestCreateTrialOrganization() {
	owner := s.seedOwner()

	resp, err := s.service.CreateOrganization(s.ctx, &dto.CreateOrganizationRequest{
		Name:    "Acme Academy",
		Slug:    "acme-academy",
		OwnerID: owner.ID,
	})
	s.Require().NoError(err)

	s.Equal(types.SubscriptionStatusTrial, resp.SubscriptionStatus)
	s.Require().NotNil(resp.TrialEndsAt)
	s.WithinDuration(time.Now().UTC().AddDate(0, 0, dto.TrialPeriodDays), *resp.TrialEndsAt, time.Minute)
	s.False(resp.TrialExpired)

	bound, err := s.stores.Users.Get(s.ctx, owner.ID)
	s.NoError(err)
	s.Equal(resp.ID, bound.OrganizationID)
	s.Equal(types.UserRoleAdmin, bound.Role)
}

func (s *OnboardingServiceSuite) TestSlugTaken() {
	owner := s.seedOwner()
	second := s.seedOwner()

	_, err := s.service.CreateOrganization(s.ctx, &dto.CreateOrganizationRequest{
		Name: "Acme Academy", Slug: "acme-academy", OwnerID: owner.ID,
	})
	s.Require().NoError(err)

	_, err = s.service.CreateOrganization(s.ctx, &dto.CreateOrganizationRequest{
		Name: "Acme Academy Too", Slug: "acme-academy", OwnerID: second.ID,
	})
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *OnboardingServiceSuite) TestOwnerAlreadyBoundRejected() {
	owner := s.seedOwner()

	_, err := s.service.CreateOrganization(s.ctx, &dto.CreateOrganizationRequest{
		Name: "First", Slug: "first", OwnerID: owner.ID,
	})
	s.Require().NoError(err)

	_, err = s.service.CreateOrganization(s.ctx, &dto.CreateOrganizationRequest{
		Name: "Second", Slug: "second", OwnerID: owner.ID,
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *OnboardingServiceSuite) TestLifetimeSignup() {
	owner := s.seedOwner()
	pc := s.seedLifetimeCode("LTD2025")

	resp, err := s.service.CreateOrganization(s.ctx, &dto.CreateOrganizationRequest{
		Name:      "Acme Academy",
		Slug:      "acme-academy",
		OwnerID:   owner.ID,
		PromoCode: "ltd2025",
	})
	s.Require().NoError(err)

	s.Equal(types.SubscriptionStatusLifetime, resp.SubscriptionStatus)
	s.Nil(resp.TrialEndsAt)

	redeemed, err := s.stores.PromoCodes.GetLifetimeCodeForOrganization(s.ctx, resp.ID)
	s.NoError(err)
	s.Equal(pc.ID, redeemed.ID)

	stored, err := s.stores.PromoCodes.Get(s.ctx, pc.ID)
	s.NoError(err)
	s.Equal(1, stored.RedemptionsCount)
}

func (s *OnboardingServiceSuite) TestDiscountCodeRejectedAtSignup() {
	owner := s.seedOwner()
	s.Require().NoError(s.stores.PromoCodes.Create(s.ctx, &promocode.PromoCode{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PROMO_CODE),
		Code:            "SAVE20",
		Type:            types.PromoCodeTypeDiscount,
		DiscountPercent: lo.ToPtr(20),
		ValidFrom:       time.Now().UTC().Add(-time.Hour),
		IsActive:        true,
		BaseModel:       types.GetDefaultBaseModel(s.ctx),
	}))

	_, err := s.service.CreateOrganization(s.ctx, &dto.CreateOrganizationRequest{
		Name: "Acme", Slug: "acme", OwnerID: owner.ID, PromoCode: "SAVE20",
	})
	s.Error(err)

	// The bad code failed the request before any write.
	_, err = s.stores.Organizations.GetBySlug(s.ctx, "acme")
	s.True(ierr.IsNotFound(err))
}

// failingUserStore breaks the owner binding step to exercise the rollback.
type failingUserStore struct {
	*testutil.InMemoryUserStore
}

func (f *failingUserStore) Update(_ context.Context, _ *user.User) error {
	return ierr.NewError("update failed").
		WithHint("Simulated datastore failure").
		Mark(ierr.ErrDatabase)
}

func (s *OnboardingServiceSuite) TestOwnerBindingFailureRollsBackOrganization() {
	owner := s.seedOwner()

	params := testutil.NewServiceParams(s.stores)
	params.UserRepo = &failingUserStore{InMemoryUserStore: s.stores.Users}
	svc := service.NewOnboardingService(params)

	_, err := svc.CreateOrganization(s.ctx, &dto.CreateOrganizationRequest{
		Name: "Acme Academy", Slug: "acme-academy", OwnerID: owner.ID,
	})
	s.Error(err)
	s.True(ierr.IsDatabase(err))

	// The half-provisioned organization was deleted, so the slug is free again.
	_, err = s.stores.Organizations.GetBySlug(s.ctx, "acme-academy")
	s.True(ierr.IsNotFound(err))
}

func (s *OnboardingServiceSuite) TestSuggestSlugReturnsFreeSlugUnchanged() {
	slug, err := s.service.SuggestSlug(s.ctx, "Fresh-Academy")
	s.NoError(err)
	s.Equal("fresh-academy", slug)
}

func (s *OnboardingServiceSuite) TestSuggestSlugAppendsSuffixWhenTaken() {
	owner := s.seedOwner()
	_, err := s.service.CreateOrganization(s.ctx, &dto.CreateOrganizationRequest{
		Name: "Acme Academy", Slug: "acme-academy", OwnerID: owner.ID,
	})
	s.Require().NoError(err)

	slug, err := s.service.SuggestSlug(s.ctx, "acme-academy")
	s.NoError(err)
	s.NotEqual("acme-academy", slug)
	s.Contains(slug, "acme-academy-")
}

func (s *OnboardingServiceSuite) TestSuggestedSlugsAlwaysValidate() {
	owner := s.seedOwner()
	_, err := s.service.CreateOrganization(s.ctx, &dto.CreateOrganizationRequest{
		Name: "Acme", Slug: "acme", OwnerID: owner.ID,
	})
	s.Require().NoError(err)

	// The suffix generator's alphabet is wider than the slug alphabet; every
	// suggestion must still pass organization validation.
	for i := 0; i < 200; i++ {
		slug, err := s.service.SuggestSlug(s.ctx, "acme")
		s.Require().NoError(err)

		candidate := &organization.Organization{
			ID:                 "org_candidate",
			Name:               "Acme",
			Slug:               slug,
			OwnerID:            owner.ID,
			SubscriptionStatus: types.SubscriptionStatusTrial,
		}
		s.NoError(candidate.Validate(), slug)
	}
}

// failingOrgUpdateStore breaks the final lifetime status write to exercise the
// last compensation step.
type failingOrgUpdateStore struct {
	*testutil.InMemoryOrganizationStore
}

func (f *failingOrgUpdateStore) Update(_ context.Context, _ *organization.Organization) error {
	return ierr.NewError("update failed").
		WithHint("Simulated datastore failure").
		Mark(ierr.ErrDatabase)
}

func (s *OnboardingServiceSuite) TestLifetimeStatusUpdateFailureRollsBack() {
	owner := s.seedOwner()
	s.seedLifetimeCode("LTD2025")

	params := testutil.NewServiceParams(s.stores)
	params.OrgRepo = &failingOrgUpdateStore{InMemoryOrganizationStore: s.stores.Organizations}
	svc := service.NewOnboardingService(params)

	_, err := svc.CreateOrganization(s.ctx, &dto.CreateOrganizationRequest{
		Name:      "Acme Academy",
		Slug:      "acme-academy",
		OwnerID:   owner.ID,
		PromoCode: "LTD2025",
	})
	s.Error(err)
	s.True(ierr.IsDatabase(err))

	// The org is gone and the owner is unbound, so provisioning can be retried.
	_, err = s.stores.Organizations.GetBySlug(s.ctx, "acme-academy")
	s.True(ierr.IsNotFound(err))

	unbound, err := s.stores.Users.Get(s.ctx, owner.ID)
	s.NoError(err)
	s.Empty(unbound.OrganizationID)
}
