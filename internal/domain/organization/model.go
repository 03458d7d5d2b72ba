package organization

import (
	"regexp"
	"time"

	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/types"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Organization is a tenant of the platform. It owns courses, profiles and a
// subscription.
type Organization struct {
	ID                 string                   `json:"id"`
	Name               string                   `json:"name"`
	Slug               string                   `json:"slug"`
	OwnerID            string                   `json:"owner_id"`
	SubscriptionStatus types.SubscriptionStatus `json:"subscription_status"`
	// TrialEndsAt is set iff the organization was created in trial and is
	// cleared on transition to active or lifetime.
	TrialEndsAt    *time.Time `json:"trial_ends_at,omitempty"`
	PrimaryColor   string     `json:"primary_color,omitempty"`
	SecondaryColor string     `json:"secondary_color,omitempty"`
	CustomDomain   *string    `json:"custom_domain,omitempty"`
	types.BaseModel
}

// Validate validates the organization
func (o *Organization) Validate() error {
	if o.Name == "" {
		return ierr.NewError("name is required").
			WithHint("Organization name is required").
			Mark(ierr.ErrValidation)
	}
	if o.Slug == "" {
		return ierr.NewError("slug is required").
			WithHint("Organization slug is required").
			Mark(ierr.ErrValidation)
	}
	if !slugPattern.MatchString(o.Slug) {
		return ierr.NewError("invalid slug").
			WithHint("Slug may only contain lowercase letters, digits and hyphens").
			WithReportableDetails(map[string]interface{}{
				"slug": o.Slug,
			}).
			Mark(ierr.ErrValidation)
	}
	if o.OwnerID == "" {
		return ierr.NewError("owner_id is required").
			WithHint("Organization owner is required").
			Mark(ierr.ErrValidation)
	}
	return o.SubscriptionStatus.Validate()
}

// IsTrialExpired reports whether the trial window has passed. Expiry is
// derived, never stored; the status stays "trial" until a webhook or manual
// transition changes it.
func (o *Organization) IsTrialExpired(now time.Time) bool {
	if o.SubscriptionStatus != types.SubscriptionStatusTrial || o.TrialEndsAt == nil {
		return false
	}
	return now.After(*o.TrialEndsAt)
}
