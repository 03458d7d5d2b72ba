package auth

import (
	"context"

	"github.com/courseforge/courseforge/internal/types"
)

// Claims is the identity extracted from a validated access token. Role and
// OrganizationID come from the identity provider's app metadata and may be
// empty for users not yet bound to an organization.
type Claims struct {
	UserID         string
	Email          string
	OrganizationID string
	Role           types.UserRole
}

// Provider validates access tokens and syncs organization bindings back to
// the identity provider.
type Provider interface {
	// ValidateToken verifies a bearer token and returns its claims.
	ValidateToken(ctx context.Context, token string) (*Claims, error)

	// AssignUserToOrganization writes the organization binding into the
	// provider's user metadata so future tokens carry it.
	AssignUserToOrganization(ctx context.Context, userID, organizationID string, role types.UserRole) error
}
