package types

import (
	ierr "github.com/courseforge/courseforge/internal/errors"
)

// SubscriptionStatus is the organization-level subscription state. It is
// mutated only by the billing lifecycle handler or by a lifetime promo
// redemption.
type SubscriptionStatus string

const (
	SubscriptionStatusTrial    SubscriptionStatus = "trial"
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	SubscriptionStatusLifetime SubscriptionStatus = "lifetime"
)

func (s SubscriptionStatus) Validate() error {
	switch s {
	case SubscriptionStatusTrial,
		SubscriptionStatusActive,
		SubscriptionStatusPastDue,
		SubscriptionStatusCanceled,
		SubscriptionStatusLifetime:
		return nil
	}
	return ierr.NewError("invalid subscription status").
		WithHint("Subscription status must be one of trial, active, past_due, canceled, lifetime").
		WithReportableDetails(map[string]interface{}{
			"status": string(s),
		}).
		Mark(ierr.ErrValidation)
}

// SubscriptionStatusFromProcessor maps the payment processor's free-text
// subscription status onto the organization state. Anything unrecognized is
// treated as canceled.
func SubscriptionStatusFromProcessor(processorStatus string) SubscriptionStatus {
	switch processorStatus {
	case "active":
		return SubscriptionStatusActive
	case "past_due":
		return SubscriptionStatusPastDue
	default:
		return SubscriptionStatusCanceled
	}
}

// BillingCycle is the billing interval of a paid subscription.
type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"
)

func (b BillingCycle) Validate() error {
	switch b {
	case BillingCycleMonthly, BillingCycleYearly:
		return nil
	}
	return ierr.NewError("invalid billing cycle").
		WithHint("Billing cycle must be monthly or yearly").
		WithReportableDetails(map[string]interface{}{
			"billing_cycle": string(b),
		}).
		Mark(ierr.ErrValidation)
}

// PeriodDays returns the length of one billing period in days. The processor
// anchors real periods; this is only used when a checkout completes before the
// first subscription.updated event arrives.
func (b BillingCycle) PeriodDays() int {
	if b == BillingCycleYearly {
		return 365
	}
	return 30
}
