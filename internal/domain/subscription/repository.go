package subscription

import (
	"context"

	"github.com/courseforge/courseforge/internal/types"
)

// Repository defines the interface for subscription persistence operations
type Repository interface {
	// Create creates a new subscription row
	Create(ctx context.Context, sub *Subscription) error

	// Get retrieves a subscription by ID
	Get(ctx context.Context, id string) (*Subscription, error)

	// GetLatestByOrganization retrieves the most recently created subscription
	// row for an organization
	GetLatestByOrganization(ctx context.Context, organizationID string) (*Subscription, error)

	// GetByProcessorSubscriptionID retrieves a subscription by its external
	// payment processor subscription id
	GetByProcessorSubscriptionID(ctx context.Context, processorSubscriptionID string) (*Subscription, error)

	// Update updates an existing subscription row
	Update(ctx context.Context, sub *Subscription) error

	// List retrieves subscriptions matching the filter
	List(ctx context.Context, filter *Filter) ([]*Subscription, error)
}

// Filter defines query parameters for listing subscriptions
type Filter struct {
	QueryFilter *types.QueryFilter

	OrganizationIDs []string
	PlanIDs         []string
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
