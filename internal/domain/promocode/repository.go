package promocode

import (
	"context"

	"github.com/courseforge/courseforge/internal/types"
)

// Repository defines the interface for promo code persistence operations
type Repository interface {
	// Create creates a new promo code
	Create(ctx context.Context, code *PromoCode) error

	// Get retrieves a promo code by ID
	Get(ctx context.Context, id string) (*PromoCode, error)

	// GetByCode retrieves a promo code by its exact (upper-cased) code
	GetByCode(ctx context.Context, code string) (*PromoCode, error)

	// Update updates an existing promo code
	Update(ctx context.Context, code *PromoCode) error

	// IncrementRedemptions atomically increments redemptions_count by one.
	// Implementations must not read-modify-write.
	IncrementRedemptions(ctx context.Context, id string) error

	// CreateRedemption records a redemption of a promo code by an organization
	CreateRedemption(ctx context.Context, redemption *Redemption) error

	// ListRedemptionsByOrganization retrieves redemptions for an organization,
	// most recent first
	ListRedemptionsByOrganization(ctx context.Context, organizationID string) ([]*Redemption, error)

	// GetLifetimeCodeForOrganization retrieves the lifetime-deal promo code
	// redeemed by an organization, if any
	GetLifetimeCodeForOrganization(ctx context.Context, organizationID string) (*PromoCode, error)

	// List retrieves promo codes matching the filter
	List(ctx context.Context, filter *Filter) ([]*PromoCode, error)
}

// Filter defines query parameters for listing promo codes
type Filter struct {
	QueryFilter *types.QueryFilter

	Types    []types.PromoCodeType
	IsActive *bool
}

// GetLimit implements BaseFilter interface
func (f *Filter) GetLimit() int {
	if f.QueryFilter == nil {
		return 0
	}
	return f.QueryFilter.GetLimit()
}

// GetOffset implements BaseFilter interface
func (f *Filter) GetOffset() int {
	if f.QueryFilter == nil {
		return 0
	}
	return f.QueryFilter.GetOffset()
}
