package course

import (
	"context"

	"github.com/courseforge/courseforge/internal/types"
)

// Repository defines the interface for course persistence operations
type Repository interface {
	// Create creates a new course
	Create(ctx context.Context, c *Course) error

	// Get retrieves a course by ID
	Get(ctx context.Context, id string) (*Course, error)

	// Update updates an existing course
	Update(ctx context.Context, c *Course) error

	// Delete removes a course
	Delete(ctx context.Context, id string) error

	// CountByOrganization counts courses owned by an organization.
	// Count-only aggregate, no row fetch.
	CountByOrganization(ctx context.Context, organizationID string) (int, error)

	// ListByOrganization retrieves courses owned by an organization
	ListByOrganization(ctx context.Context, organizationID string, filter *types.QueryFilter) ([]*Course, error)
}
