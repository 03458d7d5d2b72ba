package types

import (
	ierr "github.com/courseforge/courseforge/internal/errors"
)

// PromoCodeType distinguishes what redeeming a code grants.
type PromoCodeType string

const (
	PromoCodeTypeDiscount       PromoCodeType = "discount"
	PromoCodeTypeLifetimeDeal   PromoCodeType = "lifetime_deal"
	PromoCodeTypeTrialExtension PromoCodeType = "trial_extension"
)

func (t PromoCodeType) Validate() error {
	switch t {
	case PromoCodeTypeDiscount, PromoCodeTypeLifetimeDeal, PromoCodeTypeTrialExtension:
		return nil
	}
	return ierr.NewError("invalid promo code type").
		WithHint("Promo code type must be one of discount, lifetime_deal, trial_extension").
		WithReportableDetails(map[string]interface{}{
			"type": string(t),
		}).
		Mark(ierr.ErrValidation)
}
