package plan

import (
	"context"

	"github.com/courseforge/courseforge/internal/types"
)

// Repository defines the interface for plan persistence operations
type Repository interface {
	// Create creates a new plan
	Create(ctx context.Context, plan *Plan) error

	// Get retrieves a plan by ID
	Get(ctx context.Context, id string) (*Plan, error)

	// GetBySlug retrieves a plan by its slug
	GetBySlug(ctx context.Context, slug string) (*Plan, error)

	// Update updates an existing plan
	Update(ctx context.Context, plan *Plan) error

	// List retrieves plans matching the filter
	List(ctx context.Context, filter *Filter) ([]*Plan, error)

	// Count counts plans matching the filter
	Count(ctx context.Context, filter *Filter) (int, error)
}

// Filter defines query parameters for listing plans
type Filter struct {
	QueryFilter *types.QueryFilter

	PlanIDs  []string
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
