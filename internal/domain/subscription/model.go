package subscription

import (
	"time"

	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/types"
)

// Subscription is one billing agreement of an organization with the payment
// processor. Rows are append-only per checkout; the same processor
// subscription id is updated in place for renewals and cancellations.
type Subscription struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	PlanID         string `json:"plan_id"`
	// ProcessorSubscriptionID / ProcessorCustomerID are the external payment
	// processor identifiers.
	ProcessorSubscriptionID string `json:"processor_subscription_id"`
	ProcessorCustomerID     string `json:"processor_customer_id,omitempty"`
	// ProcessorStatus mirrors the processor's free-text subscription state
	// (active, past_due, canceled, trialing, ...).
	ProcessorStatus    string             `json:"processor_status"`
	BillingCycle       types.BillingCycle `json:"billing_cycle"`
	CurrentPeriodStart time.Time          `json:"current_period_start"`
	CurrentPeriodEnd   time.Time          `json:"current_period_end"`
	CancelAtPeriodEnd  bool               `json:"cancel_at_period_end"`
	CanceledAt         *time.Time         `json:"canceled_at,omitempty"`
	types.BaseModel
}

// Validate validates the subscription
func (s *Subscription) Validate() error {
	if s.OrganizationID == "" {
		return ierr.NewError("organization_id is required").
			WithHint("Subscription must belong to an organization").
			Mark(ierr.ErrValidation)
	}
	if s.PlanID == "" {
		return ierr.NewError("plan_id is required").
			WithHint("Subscription must reference a plan").
			Mark(ierr.ErrValidation)
	}
	if s.ProcessorSubscriptionID == "" {
		return ierr.NewError("processor_subscription_id is required").
			WithHint("Subscription must carry the processor subscription id").
			Mark(ierr.ErrValidation)
	}
	return s.BillingCycle.Validate()
}
