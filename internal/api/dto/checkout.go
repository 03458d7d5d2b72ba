package dto

import (
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/types"
)

// CreateCheckoutSessionRequest is the payload for starting a processor
// checkout flow.
type CreateCheckoutSessionRequest struct {
	PriceID        string             `json:"priceId" validate:"required"`
	OrganizationID string             `json:"organizationId" validate:"required"`
	PlanID         string             `json:"planId" validate:"required"`
	BillingCycle   types.BillingCycle `json:"billingCycle" validate:"required"`
	SuccessURL     string             `json:"successUrl" validate:"required,url"`
	CancelURL      string             `json:"cancelUrl" validate:"required,url"`
}

func (r *CreateCheckoutSessionRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return ierr.WithError(err).
			WithHint("Invalid checkout session request").
			Mark(ierr.ErrValidation)
	}
	return r.BillingCycle.Validate()
}

// CheckoutSessionResponse carries the processor session id back to the client.
type CheckoutSessionResponse struct {
	SessionID string `json:"sessionId"`
}
