package service

import (
	"context"

	"github.com/courseforge/courseforge/internal/api/dto"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/types"
)

// EntitlementService is the quota gate: it decides whether an organization may
// create one more of a resource. The gate is advisory; the write path calls it
// before inserting and aborts on a denial. The usage count and the insert are
// not one transaction, so concurrent creations can land one past the limit.
type EntitlementService interface {
	// CheckFeatureLimit reports whether creating one more `resource` is within
	// the organization's plan. Denials are results, not errors; an error means
	// the check itself could not run.
	CheckFeatureLimit(ctx context.Context, organizationID string, resource types.ResourceType) (*dto.FeatureLimitResponse, error)
}

type entitlementService struct {
	ServiceParams
	subscriptionService SubscriptionService
	usageService        UsageService
}

// NewEntitlementService creates the quota gate.
func NewEntitlementService(params ServiceParams) EntitlementService {
	return &entitlementService{
		ServiceParams:       params,
		subscriptionService: NewSubscriptionService(params),
		usageService:        NewUsageService(params),
	}
}

func (s *entitlementService) CheckFeatureLimit(ctx context.Context, organizationID string, resource types.ResourceType) (*dto.FeatureLimitResponse, error) {
	if err := resource.Validate(); err != nil {
		return nil, err
	}

	denied := &dto.FeatureLimitResponse{Allowed: false, Current: 0, Max: nil}

	resolved, err := s.subscriptionService.Resolve(ctx, organizationID)
	if err != nil {
		// Unknown organization denies rather than errors: the gate fails
		// closed and callers surface the denial uniformly.
		if ierr.IsNotFound(err) {
			s.Logger.Warnw("feature limit check for unknown organization",
				"organization_id", organizationID, "resource", resource)
			return denied, nil
		}
		return nil, err
	}

	// No resolvable limit source (no subscription, or a lifetime org whose
	// redemption vanished) denies everything.
	if resolved.Limits == nil {
		return denied, nil
	}

	current, err := s.usageService.GetResourceCount(ctx, organizationID, resource)
	if err != nil {
		return nil, err
	}

	max := resolved.Limits.Max(resource)
	allowed := max == nil || current < *max

	return &dto.FeatureLimitResponse{
		Allowed: allowed,
		Current: current,
		Max:     max,
	}, nil
}
