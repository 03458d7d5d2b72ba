package user

import (
	"context"

	"github.com/courseforge/courseforge/internal/types"
)

// Repository defines the interface for user profile persistence operations
type Repository interface {
	// Create creates a new user profile
	Create(ctx context.Context, u *User) error

	// Get retrieves a user profile by ID
	Get(ctx context.Context, id string) (*User, error)

	// Update updates an existing user profile
	Update(ctx context.Context, u *User) error

	// CountByOrganizationAndRole counts profiles bound to an organization with
	// the given role. Count-only aggregate, no row fetch.
	CountByOrganizationAndRole(ctx context.Context, organizationID string, role types.UserRole) (int, error)

	// ListByOrganization retrieves profiles bound to an organization
	ListByOrganization(ctx context.Context, organizationID string, filter *types.QueryFilter) ([]*User, error)
}
