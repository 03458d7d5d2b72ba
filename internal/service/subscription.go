package service

import (
	"context"

	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/types"
)

// ResolvedSubscription is the effective subscription state of an organization:
// the org-level status plus the limits that govern the quota gate.
type ResolvedSubscription struct {
	OrganizationID string                   `json:"organization_id"`
	Status         types.SubscriptionStatus `json:"status"`
	// PlanID is empty for lifetime organizations without a plan row.
	PlanID string `json:"plan_id,omitempty"`
	// Limits is nil when no limit source could be resolved; the gate treats
	// that as deny-all.
	Limits *types.PlanLimits `json:"limits,omitempty"`
}

// SubscriptionService resolves the effective subscription of an organization.
type SubscriptionService interface {
	// Resolve determines the organization's status and effective limits.
	// Resolution order for limits: lifetime redemption, then the latest
	// subscription row's plan, then nothing (deny-all downstream).
	Resolve(ctx context.Context, organizationID string) (*ResolvedSubscription, error)
}

type subscriptionService struct {
	ServiceParams
	planService PlanService
}

// NewSubscriptionService creates a subscription resolver.
func NewSubscriptionService(params ServiceParams) SubscriptionService {
	return &subscriptionService{
		ServiceParams: params,
		planService:   NewPlanService(params),
	}
}

func (s *subscriptionService) Resolve(ctx context.Context, organizationID string) (*ResolvedSubscription, error) {
	if organizationID == "" {
		return nil, ierr.NewError("organization_id is required").
			WithHint("Organization ID is required").
			Mark(ierr.ErrValidation)
	}

	org, err := s.OrgRepo.Get(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	resolved := &ResolvedSubscription{
		OrganizationID: org.ID,
		Status:         org.SubscriptionStatus,
	}

	// Lifetime organizations draw their limits from the redeemed deal, not
	// from a plan. A lifetime org without a resolvable redemption falls
	// through to the subscription lookup; when that finds nothing either, the
	// nil limits make the gate deny rather than grant unlimited.
	if org.SubscriptionStatus == types.SubscriptionStatusLifetime {
		code, err := s.PromoRepo.GetLifetimeCodeForOrganization(ctx, organizationID)
		if err != nil && !ierr.IsNotFound(err) {
			return nil, err
		}
		if code != nil && code.LifetimeLimits != nil {
			resolved.Limits = code.LifetimeLimits
			return resolved, nil
		}
		s.Logger.Warnw("lifetime organization has no redeemed lifetime code",
			"organization_id", organizationID)
	}

	sub, err := s.SubRepo.GetLatestByOrganization(ctx, organizationID)
	if err != nil {
		if ierr.IsNotFound(err) {
			// Trial orgs have no subscription row yet; trial limits come from
			// the plan the gate's caller selects, so none are attached here.
			return resolved, nil
		}
		return nil, err
	}

	resolved.PlanID = sub.PlanID
	plan, err := s.planService.GetPlan(ctx, sub.PlanID)
	if err != nil {
		if ierr.IsNotFound(err) {
			s.Logger.Errorw("subscription references missing plan",
				"organization_id", organizationID,
				"subscription_id", sub.ID,
				"plan_id", sub.PlanID)
			return resolved, nil
		}
		return nil, err
	}

	resolved.Limits = &plan.Limits
	return resolved, nil
}
