package promocode

import (
	"time"

	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/types"
	"github.com/shopspring/decimal"
)

// PromoCode is a redeemable code granting a discount, a lifetime deal, or a
// trial extension. Codes are stored upper-cased and matched case-insensitively.
type PromoCode struct {
	ID   string              `json:"id"`
	Code string              `json:"code"`
	Type types.PromoCodeType `json:"type"`
	// DiscountPercent and DiscountAmount apply to discount codes only and are
	// mutually exclusive with LifetimeLimits.
	DiscountPercent *int   `json:"discount_percent,omitempty"`
	DiscountAmount  *int64 `json:"discount_amount,omitempty"`
	// MaxRedemptions caps total redemptions; nil means unlimited.
	MaxRedemptions *int `json:"max_redemptions,omitempty"`
	// RedemptionsCount is monotonic and only mutated via an atomic increment.
	RedemptionsCount int `json:"redemptions_count"`
	// LifetimeLimits substitutes for a plan's maximums when a lifetime-deal
	// code is redeemed.
	LifetimeLimits *types.PlanLimits `json:"lifetime_plan_limits,omitempty"`
	ValidFrom      time.Time         `json:"valid_from"`
	ValidUntil     *time.Time        `json:"valid_until,omitempty"`
	IsActive       bool              `json:"is_active"`
	types.BaseModel
}

// Redemption links a promo code to the organization and user that consumed it.
type Redemption struct {
	ID             string    `json:"id"`
	PromoCodeID    string    `json:"promo_code_id"`
	OrganizationID string    `json:"organization_id"`
	UserID         string    `json:"user_id"`
	RedeemedAt     time.Time `json:"redeemed_at"`
	types.BaseModel
}

// Validate validates the promo code
func (p *PromoCode) Validate() error {
	if p.Code == "" {
		return ierr.NewError("code is required").
			WithHint("Promo code is required").
			Mark(ierr.ErrValidation)
	}
	if err := p.Type.Validate(); err != nil {
		return err
	}
	if p.DiscountPercent != nil && p.DiscountAmount != nil {
		return ierr.NewError("discount_percent and discount_amount are mutually exclusive").
			WithHint("A promo code may carry a percent discount or a fixed amount, not both").
			Mark(ierr.ErrValidation)
	}
	if (p.DiscountPercent != nil || p.DiscountAmount != nil) && p.LifetimeLimits != nil {
		return ierr.NewError("discount fields are mutually exclusive with lifetime_plan_limits").
			WithHint("Lifetime-deal codes cannot also carry a discount").
			Mark(ierr.ErrValidation)
	}
	if p.DiscountPercent != nil && (*p.DiscountPercent <= 0 || *p.DiscountPercent > 100) {
		return ierr.NewError("discount_percent out of range").
			WithHint("Discount percent must be between 1 and 100").
			Mark(ierr.ErrValidation)
	}
	if p.MaxRedemptions != nil && *p.MaxRedemptions < 0 {
		return ierr.NewError("max_redemptions cannot be negative").
			WithHint("Max redemptions must be 0 or greater, or unset for unlimited").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsValid reports whether the code can currently be redeemed: it is active,
// inside its validity window, and under its redemption cap.
func (p *PromoCode) IsValid(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if now.Before(p.ValidFrom) {
		return false
	}
	if p.ValidUntil != nil && now.After(*p.ValidUntil) {
		return false
	}
	if p.MaxRedemptions != nil && p.RedemptionsCount >= *p.MaxRedemptions {
		return false
	}
	return true
}

// DiscountResult is the outcome of applying a discount code to a price.
type DiscountResult struct {
	Discount   int64 `json:"discount"`
	FinalPrice int64 `json:"final_price"`
}

// ApplyDiscount computes the discounted price in minor currency units. The
// discount never exceeds the original price.
func (p *PromoCode) ApplyDiscount(originalPrice int64) DiscountResult {
	var discount decimal.Decimal
	price := decimal.NewFromInt(originalPrice)

	switch {
	case p.DiscountPercent != nil:
		discount = price.
			Mul(decimal.NewFromInt(int64(*p.DiscountPercent))).
			Div(decimal.NewFromInt(100)).
			Round(0)
	case p.DiscountAmount != nil:
		discount = decimal.NewFromInt(*p.DiscountAmount)
	default:
		return DiscountResult{Discount: 0, FinalPrice: originalPrice}
	}

	if discount.GreaterThan(price) {
		discount = price
	}

	return DiscountResult{
		Discount:   discount.IntPart(),
		FinalPrice: price.Sub(discount).IntPart(),
	}
}
