package service

import (
	"context"
	"encoding/json"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stripe/stripe-go/v82"

	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/domain/subscription"
	"github.com/courseforge/courseforge/internal/email"
	"github.com/courseforge/courseforge/internal/types"
)

// BillingLifecycleService applies payment processor events to organization and
// subscription state. Signature verification happens at the boundary; by the
// time an event reaches HandleEvent it is authentic.
//
// Malformed or incomplete events are skipped, not errored: the webhook
// endpoint must acknowledge the delivery so the rest of the batch is not
// retried. The only hard failure is a datastore error.
type BillingLifecycleService interface {
	HandleEvent(ctx context.Context, event *stripe.Event) error
}

type billingLifecycleService struct {
	ServiceParams
}

// NewBillingLifecycleService creates the lifecycle handler.
func NewBillingLifecycleService(params ServiceParams) BillingLifecycleService {
	return &billingLifecycleService{ServiceParams: params}
}

var payloadJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Narrow payload views decoded from the event body. The processor's full
// object schemas shift between API versions; these only bind the fields the
// state machine reads.

type checkoutSessionPayload struct {
	ID           string            `json:"id"`
	Subscription string            `json:"subscription"`
	Customer     string            `json:"customer"`
	Metadata     map[string]string `json:"metadata"`
}

type subscriptionPayload struct {
	ID                 string `json:"id"`
	Status             string `json:"status"`
	CancelAtPeriodEnd  bool   `json:"cancel_at_period_end"`
	CurrentPeriodStart int64  `json:"current_period_start"`
	CurrentPeriodEnd   int64  `json:"current_period_end"`
	Items              struct {
		Data []struct {
			CurrentPeriodStart int64 `json:"current_period_start"`
			CurrentPeriodEnd   int64 `json:"current_period_end"`
		} `json:"data"`
	} `json:"items"`
}

// periodBounds prefers the top-level period fields and falls back to the first
// line item, where newer API versions moved them.
func (p *subscriptionPayload) periodBounds() (start, end int64) {
	start, end = p.CurrentPeriodStart, p.CurrentPeriodEnd
	if end == 0 && len(p.Items.Data) > 0 {
		start = p.Items.Data[0].CurrentPeriodStart
		end = p.Items.Data[0].CurrentPeriodEnd
	}
	return start, end
}

type invoicePayload struct {
	ID           string `json:"id"`
	Subscription string `json:"subscription"`
	Parent       struct {
		SubscriptionDetails struct {
			Subscription string `json:"subscription"`
		} `json:"subscription_details"`
	} `json:"parent"`
}

func (p *invoicePayload) subscriptionID() string {
	if p.Subscription != "" {
		return p.Subscription
	}
	return p.Parent.SubscriptionDetails.Subscription
}

func (s *billingLifecycleService) HandleEvent(ctx context.Context, event *stripe.Event) error {
	log := s.Logger.With("event_id", event.ID, "event_type", event.Type)

	switch event.Type {
	case "checkout.session.completed":
		return s.handleCheckoutCompleted(ctx, event.Data.Raw)
	case "customer.subscription.updated":
		return s.handleSubscriptionUpdated(ctx, event.Data.Raw)
	case "customer.subscription.deleted":
		return s.handleSubscriptionDeleted(ctx, event.Data.Raw)
	case "invoice.payment_failed":
		return s.handleInvoicePaymentFailed(ctx, event.Data.Raw)
	case "invoice.payment_succeeded":
		return s.handleInvoicePaymentSucceeded(ctx, event.Data.Raw)
	default:
		log.Debugw("ignoring unhandled event type")
		return nil
	}
}

func (s *billingLifecycleService) handleCheckoutCompleted(ctx context.Context, raw json.RawMessage) error {
	var payload checkoutSessionPayload
	if err := payloadJSON.Unmarshal(raw, &payload); err != nil {
		s.skip("undecodable checkout session payload", "error", err)
		return nil
	}

	organizationID := payload.Metadata["organization_id"]
	planID := payload.Metadata["plan_id"]
	if organizationID == "" || planID == "" {
		s.skip("checkout session missing metadata",
			"session_id", payload.ID,
			"organization_id", organizationID,
			"plan_id", planID)
		return nil
	}
	if payload.Subscription == "" {
		s.skip("checkout session has no subscription", "session_id", payload.ID)
		return nil
	}

	// Replays of the same delivery find the row already present and stop.
	if existing, err := s.SubRepo.GetByProcessorSubscriptionID(ctx, payload.Subscription); err == nil && existing != nil {
		s.Logger.Debugw("checkout already processed",
			"processor_subscription_id", payload.Subscription)
		return nil
	} else if err != nil && !ierr.IsNotFound(err) {
		return err
	}

	cycle := types.BillingCycle(payload.Metadata["billing_cycle"])
	if cycle.Validate() != nil {
		cycle = types.BillingCycleMonthly
	}

	now := time.Now().UTC()
	sub := &subscription.Subscription{
		ID:                      types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		OrganizationID:          organizationID,
		PlanID:                  planID,
		ProcessorSubscriptionID: payload.Subscription,
		ProcessorCustomerID:     payload.Customer,
		ProcessorStatus:         "active",
		BillingCycle:            cycle,
		CurrentPeriodStart:      now,
		// Provisional; the subscription.updated event that follows carries the
		// processor's real billing anchor.
		CurrentPeriodEnd: now.AddDate(0, 0, cycle.PeriodDays()),
		BaseModel:        types.GetDefaultBaseModel(ctx),
	}
	if err := s.SubRepo.Create(ctx, sub); err != nil {
		return err
	}

	if err := s.transitionOrganization(ctx, organizationID, types.SubscriptionStatusActive); err != nil {
		return err
	}

	s.Logger.Infow("checkout completed",
		"organization_id", organizationID,
		"plan_id", planID,
		"processor_subscription_id", payload.Subscription)
	return nil
}

func (s *billingLifecycleService) handleSubscriptionUpdated(ctx context.Context, raw json.RawMessage) error {
	var payload subscriptionPayload
	if err := payloadJSON.Unmarshal(raw, &payload); err != nil {
		s.skip("undecodable subscription payload", "error", err)
		return nil
	}
	if payload.ID == "" {
		s.skip("subscription event missing id")
		return nil
	}

	sub, err := s.SubRepo.GetByProcessorSubscriptionID(ctx, payload.ID)
	if err != nil {
		if ierr.IsNotFound(err) {
			s.skip("subscription event for unknown subscription",
				"processor_subscription_id", payload.ID)
			return nil
		}
		return err
	}

	sub.ProcessorStatus = payload.Status
	sub.CancelAtPeriodEnd = payload.CancelAtPeriodEnd
	if start, end := payload.periodBounds(); end > 0 {
		periodEnd := time.Unix(end, 0).UTC()
		// The period end only moves forward; a replayed older event must not
		// shrink the paid-through window.
		if periodEnd.After(sub.CurrentPeriodEnd) {
			sub.CurrentPeriodStart = time.Unix(start, 0).UTC()
			sub.CurrentPeriodEnd = periodEnd
		}
	}
	sub.UpdatedAt = time.Now().UTC()
	sub.UpdatedBy = types.DefaultUserID

	if err := s.SubRepo.Update(ctx, sub); err != nil {
		return err
	}

	status := types.SubscriptionStatusFromProcessor(payload.Status)
	return s.transitionOrganization(ctx, sub.OrganizationID, status)
}

func (s *billingLifecycleService) handleSubscriptionDeleted(ctx context.Context, raw json.RawMessage) error {
	var payload subscriptionPayload
	if err := payloadJSON.Unmarshal(raw, &payload); err != nil {
		s.skip("undecodable subscription payload", "error", err)
		return nil
	}
	if payload.ID == "" {
		s.skip("subscription event missing id")
		return nil
	}

	sub, err := s.SubRepo.GetByProcessorSubscriptionID(ctx, payload.ID)
	if err != nil {
		if ierr.IsNotFound(err) {
			s.skip("subscription event for unknown subscription",
				"processor_subscription_id", payload.ID)
			return nil
		}
		return err
	}

	now := time.Now().UTC()
	sub.ProcessorStatus = "canceled"
	if sub.CanceledAt == nil {
		sub.CanceledAt = &now
	}
	sub.UpdatedAt = now
	sub.UpdatedBy = types.DefaultUserID

	if err := s.SubRepo.Update(ctx, sub); err != nil {
		return err
	}

	return s.transitionOrganization(ctx, sub.OrganizationID, types.SubscriptionStatusCanceled)
}

func (s *billingLifecycleService) handleInvoicePaymentFailed(ctx context.Context, raw json.RawMessage) error {
	org, ok, err := s.organizationForInvoice(ctx, raw)
	if err != nil || !ok {
		return err
	}
	// The subscription row is untouched; the processor will follow up with its
	// own subscription.updated event.
	return s.transitionOrganization(ctx, org, types.SubscriptionStatusPastDue)
}

func (s *billingLifecycleService) handleInvoicePaymentSucceeded(ctx context.Context, raw json.RawMessage) error {
	org, ok, err := s.organizationForInvoice(ctx, raw)
	if err != nil || !ok {
		return err
	}
	return s.transitionOrganization(ctx, org, types.SubscriptionStatusActive)
}

func (s *billingLifecycleService) organizationForInvoice(ctx context.Context, raw json.RawMessage) (string, bool, error) {
	var payload invoicePayload
	if err := payloadJSON.Unmarshal(raw, &payload); err != nil {
		s.skip("undecodable invoice payload", "error", err)
		return "", false, nil
	}

	subID := payload.subscriptionID()
	if subID == "" {
		s.skip("invoice event has no subscription", "invoice_id", payload.ID)
		return "", false, nil
	}

	sub, err := s.SubRepo.GetByProcessorSubscriptionID(ctx, subID)
	if err != nil {
		if ierr.IsNotFound(err) {
			s.skip("invoice event for unknown subscription",
				"processor_subscription_id", subID)
			return "", false, nil
		}
		return "", false, err
	}
	return sub.OrganizationID, true, nil
}

// transitionOrganization moves an organization's subscription status and
// notifies the owner on state changes that need attention. Lifetime
// organizations are never moved by webhook events.
func (s *billingLifecycleService) transitionOrganization(ctx context.Context, organizationID string, status types.SubscriptionStatus) error {
	org, err := s.OrgRepo.Get(ctx, organizationID)
	if err != nil {
		if ierr.IsNotFound(err) {
			s.skip("event references unknown organization", "organization_id", organizationID)
			return nil
		}
		return err
	}

	if org.SubscriptionStatus == types.SubscriptionStatusLifetime {
		s.Logger.Debugw("ignoring processor event for lifetime organization",
			"organization_id", organizationID, "status", status)
		return nil
	}
	if org.SubscriptionStatus == status {
		return nil
	}

	previous := org.SubscriptionStatus
	org.SubscriptionStatus = status
	if status == types.SubscriptionStatusActive || status == types.SubscriptionStatusLifetime {
		org.TrialEndsAt = nil
	}
	org.UpdatedAt = time.Now().UTC()
	org.UpdatedBy = types.DefaultUserID

	if err := s.OrgRepo.Update(ctx, org); err != nil {
		return err
	}

	s.Logger.Infow("organization subscription status changed",
		"organization_id", organizationID,
		"from", previous,
		"to", status)

	s.notifyOwner(ctx, org.OwnerID, org.Name, previous, status)
	return nil
}

// notifyOwner sends the billing lifecycle email for a transition. Delivery is
// best effort; failures are logged and swallowed.
func (s *billingLifecycleService) notifyOwner(ctx context.Context, ownerID, orgName string, from, to types.SubscriptionStatus) {
	if s.Email == nil {
		return
	}

	owner, err := s.UserRepo.Get(ctx, ownerID)
	if err != nil || owner.Email == "" {
		return
	}

	var subject, body string
	switch {
	case to == types.SubscriptionStatusPastDue:
		subject, body = email.PaymentFailedSubject(), email.PaymentFailedBody(orgName)
	case to == types.SubscriptionStatusCanceled:
		subject, body = email.SubscriptionCanceledSubject(), email.SubscriptionCanceledBody(orgName)
	case to == types.SubscriptionStatusActive && from != types.SubscriptionStatusActive:
		subject, body = email.SubscriptionActiveSubject(), email.SubscriptionActiveBody(orgName)
	default:
		return
	}

	if err := s.Email.Send(ctx, owner.Email, subject, body); err != nil {
		s.Logger.Errorw("failed to send lifecycle email",
			"owner_id", ownerID, "error", err)
	}
}

func (s *billingLifecycleService) skip(msg string, kv ...any) {
	// Skips are debug-level: in production these are routine partial payloads
	// and must not page anyone.
	s.Logger.Debugw(msg, kv...)
}
