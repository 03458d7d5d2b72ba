package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"

	"github.com/courseforge/courseforge/internal/api/dto"
	"github.com/courseforge/courseforge/internal/domain/promocode"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/service"
	"github.com/courseforge/courseforge/internal/testutil"
	"github.com/courseforge/courseforge/internal/types"
)

type PromoCodeServiceSuite struct {
	suite.Suite
	ctx     context.Context
	stores  testutil.Stores
	service service.PromoCodeService
}

func TestPromoCodeService(t *testing.T) {
	suite.Run(t, new(PromoCodeServiceSuite))
}

func (s *PromoCodeServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.stores = testutil.NewStores()
	s.service = service.NewPromoCodeService(testutil.NewServiceParams(s.stores))
}

func (s *PromoCodeServiceSuite) seedCode(mutate func(*promocode.PromoCode)) *promocode.PromoCode {
	pc := &promocode.PromoCode{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PROMO_CODE),
		Code:      "LAUNCH50",
		Type:      types.PromoCodeTypeDiscount,
		ValidFrom: time.Now().UTC().Add(-time.Hour),
		IsActive:  true,
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	if mutate != nil {
		mutate(pc)
	}
	s.Require().NoError(s.stores.PromoCodes.Create(s.ctx, pc))
	return pc
}

func (s *PromoCodeServiceSuite) TestValidateNormalizesCase() {
	s.seedCode(nil)

	pc, err := s.service.ValidateCode(s.ctx, "  launch50 ")
	s.NoError(err)
	s.Equal("LAUNCH50", pc.Code)
}

func (s *PromoCodeServiceSuite) TestValidateUnknownCode() {
	_, err := s.service.ValidateCode(s.ctx, "NOPE")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *PromoCodeServiceSuite) TestValidateRejectsInactive() {
	s.seedCode(func(pc *promocode.PromoCode) { pc.IsActive = false })

	// An existing-but-unredeemable code is indistinguishable from a miss.
	_, err := s.service.ValidateCode(s.ctx, "LAUNCH50")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *PromoCodeServiceSuite) TestValidateRejectsBeforeWindow() {
	s.seedCode(func(pc *promocode.PromoCode) {
		pc.ValidFrom = time.Now().UTC().Add(time.Hour)
	})

	_, err := s.service.ValidateCode(s.ctx, "LAUNCH50")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *PromoCodeServiceSuite) TestValidateRejectsAfterWindow() {
	s.seedCode(func(pc *promocode.PromoCode) {
		pc.ValidUntil = lo.ToPtr(time.Now().UTC().Add(-time.Minute))
	})

	_, err := s.service.ValidateCode(s.ctx, "LAUNCH50")
	s.Error(err)
}

func (s *PromoCodeServiceSuite) TestValidateRejectsExhaustedCode() {
	s.seedCode(func(pc *promocode.PromoCode) {
		pc.MaxRedemptions = lo.ToPtr(3)
		pc.RedemptionsCount = 3
	})

	_, err := s.service.ValidateCode(s.ctx, "LAUNCH50")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *PromoCodeServiceSuite) TestApplyPercentDiscount() {
	s.seedCode(func(pc *promocode.PromoCode) {
		pc.DiscountPercent = lo.ToPtr(25)
	})

	result, err := s.service.ApplyDiscount(s.ctx, &dto.ApplyDiscountRequest{
		Code:          "LAUNCH50",
		OriginalPrice: 10000,
	})
	s.NoError(err)
	s.Equal(int64(2500), result.Discount)
	s.Equal(int64(7500), result.FinalPrice)
}

func (s *PromoCodeServiceSuite) TestApplyAmountDiscountNeverNegative() {
	s.seedCode(func(pc *promocode.PromoCode) {
		pc.DiscountAmount = lo.ToPtr(int64(5000))
	})

	result, err := s.service.ApplyDiscount(s.ctx, &dto.ApplyDiscountRequest{
		Code:          "LAUNCH50",
		OriginalPrice: 3000,
	})
	s.NoError(err)
	s.Equal(int64(3000), result.Discount)
	s.Equal(int64(0), result.FinalPrice)
}

func (s *PromoCodeServiceSuite) TestApplyDiscountRejectsLifetimeCode() {
	s.seedCode(func(pc *promocode.PromoCode) {
		pc.Type = types.PromoCodeTypeLifetimeDeal
		pc.LifetimeLimits = &types.PlanLimits{MaxCourses: lo.ToPtr(5)}
	})

	_, err := s.service.ApplyDiscount(s.ctx, &dto.ApplyDiscountRequest{
		Code:          "LAUNCH50",
		OriginalPrice: 3000,
	})
	s.Error(err)
}

func (s *PromoCodeServiceSuite) TestRedeemRecordsAndIncrements() {
	pc := s.seedCode(nil)

	redemption, err := s.service.Redeem(s.ctx, "LAUNCH50", "org_1", "user_1")
	s.NoError(err)
	s.Equal(pc.ID, redemption.PromoCodeID)

	stored, err := s.stores.PromoCodes.Get(s.ctx, pc.ID)
	s.NoError(err)
	s.Equal(1, stored.RedemptionsCount)
}

func (s *PromoCodeServiceSuite) TestConcurrentRedemptionsCountExactly() {
	// The increment is atomic in the store: N concurrent redemptions land as
	// exactly N, never fewer from lost updates.
	pc := s.seedCode(nil)

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := s.service.Redeem(s.ctx, "LAUNCH50", "org_1", "user_1")
			s.NoError(err)
		}(i)
	}
	wg.Wait()

	stored, err := s.stores.PromoCodes.Get(s.ctx, pc.ID)
	s.NoError(err)
	s.Equal(n, stored.RedemptionsCount)
}

func (s *PromoCodeServiceSuite) TestRedeemLifetimeOncePerOrganization() {
	s.seedCode(func(pc *promocode.PromoCode) {
		pc.Type = types.PromoCodeTypeLifetimeDeal
		pc.LifetimeLimits = &types.PlanLimits{MaxCourses: lo.ToPtr(10)}
	})

	_, err := s.service.RedeemLifetime(s.ctx, "LAUNCH50", "org_1", "user_1")
	s.NoError(err)

	_, err = s.service.RedeemLifetime(s.ctx, "LAUNCH50", "org_1", "user_1")
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *PromoCodeServiceSuite) TestRedeemLifetimeRejectsDiscountCode() {
	s.seedCode(nil)

	_, err := s.service.RedeemLifetime(s.ctx, "LAUNCH50", "org_1", "user_1")
	s.Error(err)
}

func (s *PromoCodeServiceSuite) TestCreatePromoCodeRejectsMixedGrants() {
	req := &dto.CreatePromoCodeRequest{
		Code:            "BROKEN",
		Type:            types.PromoCodeTypeDiscount,
		DiscountPercent: lo.ToPtr(50),
		LifetimeLimits:  &types.PlanLimits{MaxCourses: lo.ToPtr(5)},
		IsActive:        true,
	}
	_, err := s.service.CreatePromoCode(s.ctx, req)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}
