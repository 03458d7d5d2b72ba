package user

import (
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/types"
)

// User is a profile on the platform. Identity (login, sessions) is owned by
// the external auth provider; this row carries the organization binding and
// the platform role.
type User struct {
	ID             string         `json:"id"`
	Email          string         `json:"email"`
	FullName       string         `json:"full_name,omitempty"`
	OrganizationID string         `json:"organization_id,omitempty"`
	Role           types.UserRole `json:"role"`
	types.BaseModel
}

// Validate validates the user profile
func (u *User) Validate() error {
	if u.Email == "" {
		return ierr.NewError("email is required").
			WithHint("User email is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Actor converts the profile into a permission-check subject.
func (u *User) Actor() types.Actor {
	return types.Actor{
		UserID:         u.ID,
		OrganizationID: u.OrganizationID,
		Role:           u.Role,
	}
}
