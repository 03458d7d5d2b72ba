package dto

import (
	"context"
	"strings"
	"time"

	"github.com/courseforge/courseforge/internal/domain/promocode"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/types"
)

// CreatePromoCodeRequest is the payload for creating a promo code.
type CreatePromoCodeRequest struct {
	Code            string              `json:"code" validate:"required"`
	Type            types.PromoCodeType `json:"type" validate:"required"`
	DiscountPercent *int                `json:"discount_percent,omitempty"`
	DiscountAmount  *int64              `json:"discount_amount,omitempty"`
	MaxRedemptions  *int                `json:"max_redemptions,omitempty"`
	LifetimeLimits  *types.PlanLimits   `json:"lifetime_plan_limits,omitempty"`
	ValidFrom       time.Time           `json:"valid_from"`
	ValidUntil      *time.Time          `json:"valid_until,omitempty"`
	IsActive        bool                `json:"is_active"`
}

func (r *CreatePromoCodeRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return ierr.WithError(err).
			WithHint("Invalid promo code request").
			Mark(ierr.ErrValidation)
	}
	return r.Type.Validate()
}

// ToPromoCode builds the domain promo code. Codes are stored upper-cased.
func (r *CreatePromoCodeRequest) ToPromoCode(ctx context.Context) *promocode.PromoCode {
	validFrom := r.ValidFrom
	if validFrom.IsZero() {
		validFrom = time.Now().UTC()
	}
	return &promocode.PromoCode{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PROMO_CODE),
		Code:            strings.ToUpper(strings.TrimSpace(r.Code)),
		Type:            r.Type,
		DiscountPercent: r.DiscountPercent,
		DiscountAmount:  r.DiscountAmount,
		MaxRedemptions:  r.MaxRedemptions,
		LifetimeLimits:  r.LifetimeLimits,
		ValidFrom:       validFrom,
		ValidUntil:      r.ValidUntil,
		IsActive:        r.IsActive,
		BaseModel:       types.GetDefaultBaseModel(ctx),
	}
}

// ApplyDiscountRequest asks for the discounted price of a plan under a code.
type ApplyDiscountRequest struct {
	Code          string `json:"code" validate:"required"`
	OriginalPrice int64  `json:"original_price" validate:"gte=0"`
}

func (r *ApplyDiscountRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return ierr.WithError(err).
			WithHint("Invalid discount request").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PromoCodeResponse is the API representation of a promo code.
type PromoCodeResponse struct {
	*promocode.PromoCode
}

// NewPromoCodeResponse builds the response for a promo code.
func NewPromoCodeResponse(p *promocode.PromoCode) *PromoCodeResponse {
	return &PromoCodeResponse{PromoCode: p}
}

// ListPromoCodesResponse is the paginated promo code list envelope.
type ListPromoCodesResponse = types.ListResponse[*PromoCodeResponse]
