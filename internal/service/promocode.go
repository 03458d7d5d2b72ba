package service

import (
	"context"
	"strings"
	"time"

	"github.com/courseforge/courseforge/internal/api/dto"
	"github.com/courseforge/courseforge/internal/domain/promocode"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/types"
)

// PromoCodeService validates, redeems and administers promo codes.
type PromoCodeService interface {
	CreatePromoCode(ctx context.Context, req *dto.CreatePromoCodeRequest) (*dto.PromoCodeResponse, error)
	GetPromoCode(ctx context.Context, id string) (*dto.PromoCodeResponse, error)
	ListPromoCodes(ctx context.Context, filter *promocode.Filter) (*dto.ListPromoCodesResponse, error)

	// ValidateCode checks whether a code can currently be redeemed. Lookup is
	// case-insensitive; validity is active + window + redemption cap.
	ValidateCode(ctx context.Context, code string) (*promocode.PromoCode, error)

	// ApplyDiscount computes the discounted price for a validated code.
	ApplyDiscount(ctx context.Context, req *dto.ApplyDiscountRequest) (*promocode.DiscountResult, error)

	// Redeem records a redemption and bumps the counter. The cap check is
	// advisory; the increment itself is atomic, so concurrent redemptions can
	// overshoot the cap by at most the number of in-flight validators.
	Redeem(ctx context.Context, code, organizationID, userID string) (*promocode.Redemption, error)

	// RedeemLifetime redeems a lifetime-deal code for an organization. At most
	// one lifetime redemption per organization is permitted.
	RedeemLifetime(ctx context.Context, code, organizationID, userID string) (*promocode.Redemption, error)
}

type promoCodeService struct {
	ServiceParams
}

// NewPromoCodeService creates a promo code service.
func NewPromoCodeService(params ServiceParams) PromoCodeService {
	return &promoCodeService{ServiceParams: params}
}

func (s *promoCodeService) CreatePromoCode(ctx context.Context, req *dto.CreatePromoCodeRequest) (*dto.PromoCodeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	code := req.ToPromoCode(ctx)
	if err := code.Validate(); err != nil {
		return nil, err
	}

	if err := s.PromoRepo.Create(ctx, code); err != nil {
		return nil, err
	}

	s.Logger.Infow("created promo code", "promo_code_id", code.ID, "code", code.Code, "type", code.Type)
	return dto.NewPromoCodeResponse(code), nil
}

func (s *promoCodeService) GetPromoCode(ctx context.Context, id string) (*dto.PromoCodeResponse, error) {
	code, err := s.PromoRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewPromoCodeResponse(code), nil
}

func (s *promoCodeService) ListPromoCodes(ctx context.Context, filter *promocode.Filter) (*dto.ListPromoCodesResponse, error) {
	if filter == nil {
		filter = &promocode.Filter{QueryFilter: types.NewDefaultQueryFilter()}
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.QueryFilter.Validate(); err != nil {
		return nil, err
	}

	codes, err := s.PromoRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.PromoCodeResponse, len(codes))
	for i, c := range codes {
		items[i] = dto.NewPromoCodeResponse(c)
	}

	resp := types.NewListResponse(items, len(items), filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}

func (s *promoCodeService) ValidateCode(ctx context.Context, code string) (*promocode.PromoCode, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, ierr.NewError("code is required").
			WithHint("Promo code is required").
			Mark(ierr.ErrValidation)
	}

	pc, err := s.PromoRepo.GetByCode(ctx, normalized)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, ierr.NewError("promo code not found").
				WithHint("This promo code does not exist").
				WithReportableDetails(map[string]any{"code": normalized}).
				Mark(ierr.ErrNotFound)
		}
		return nil, err
	}

	// Inactive, out-of-window and exhausted codes all surface as not found:
	// callers get no signal about whether a guessed code exists.
	if !pc.IsValid(time.Now().UTC()) {
		return nil, ierr.NewError("promo code is not valid").
			WithHint("This promo code does not exist or can no longer be redeemed").
			WithReportableDetails(map[string]any{"code": normalized}).
			Mark(ierr.ErrNotFound)
	}

	return pc, nil
}

func (s *promoCodeService) ApplyDiscount(ctx context.Context, req *dto.ApplyDiscountRequest) (*promocode.DiscountResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	pc, err := s.ValidateCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if pc.Type != types.PromoCodeTypeDiscount {
		return nil, ierr.NewError("promo code is not a discount code").
			WithHint("This promo code does not grant a price discount").
			Mark(ierr.ErrInvalidOperation)
	}

	result := pc.ApplyDiscount(req.OriginalPrice)
	return &result, nil
}

func (s *promoCodeService) Redeem(ctx context.Context, code, organizationID, userID string) (*promocode.Redemption, error) {
	pc, err := s.ValidateCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.redeem(ctx, pc, organizationID, userID)
}

func (s *promoCodeService) RedeemLifetime(ctx context.Context, code, organizationID, userID string) (*promocode.Redemption, error) {
	pc, err := s.ValidateCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if pc.Type != types.PromoCodeTypeLifetimeDeal {
		return nil, ierr.NewError("promo code is not a lifetime deal").
			WithHint("This promo code does not grant a lifetime deal").
			WithReportableDetails(map[string]any{"code": pc.Code, "type": pc.Type}).
			Mark(ierr.ErrInvalidOperation)
	}

	existing, err := s.PromoRepo.GetLifetimeCodeForOrganization(ctx, organizationID)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, ierr.NewError("organization already redeemed a lifetime deal").
			WithHint("Only one lifetime deal may be redeemed per organization").
			WithReportableDetails(map[string]any{"organization_id": organizationID}).
			Mark(ierr.ErrInvalidOperation)
	}

	return s.redeem(ctx, pc, organizationID, userID)
}

func (s *promoCodeService) redeem(ctx context.Context, pc *promocode.PromoCode, organizationID, userID string) (*promocode.Redemption, error) {
	if organizationID == "" {
		return nil, ierr.NewError("organization_id is required").
			WithHint("Organization ID is required").
			Mark(ierr.ErrValidation)
	}

	redemption := &promocode.Redemption{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REDEMPTION),
		PromoCodeID:    pc.ID,
		OrganizationID: organizationID,
		UserID:         userID,
		RedeemedAt:     time.Now().UTC(),
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}

	if err := s.PromoRepo.CreateRedemption(ctx, redemption); err != nil {
		return nil, err
	}
	if err := s.PromoRepo.IncrementRedemptions(ctx, pc.ID); err != nil {
		return nil, err
	}

	s.Logger.Infow("redeemed promo code",
		"promo_code_id", pc.ID,
		"code", pc.Code,
		"organization_id", organizationID,
		"user_id", userID)

	return redemption, nil
}
