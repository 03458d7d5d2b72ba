package organization

import (
	"context"

	"github.com/courseforge/courseforge/internal/types"
)

// Repository defines the interface for organization persistence operations
type Repository interface {
	// Create creates a new organization
	Create(ctx context.Context, org *Organization) error

	// Get retrieves an organization by ID
	Get(ctx context.Context, id string) (*Organization, error)

	// GetBySlug retrieves an organization by its unique slug
	GetBySlug(ctx context.Context, slug string) (*Organization, error)

	// Update updates an existing organization
	Update(ctx context.Context, org *Organization) error

	// Delete removes an organization
	Delete(ctx context.Context, id string) error

	// List retrieves organizations matching the filter
	List(ctx context.Context, filter *Filter) ([]*Organization, error)

	// Count counts organizations matching the filter
	Count(ctx context.Context, filter *Filter) (int, error)
}

// Filter defines query parameters for listing organizations
type Filter struct {
	QueryFilter *types.QueryFilter

	OrganizationIDs      []string
	SubscriptionStatuses []types.SubscriptionStatus
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
