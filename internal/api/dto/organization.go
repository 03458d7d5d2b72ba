package dto

import (
	"context"
	"strings"
	"time"

	"github.com/courseforge/courseforge/internal/domain/organization"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/types"
)

// TrialPeriodDays is the trial window granted to every new organization.
const TrialPeriodDays = 14

// CreateOrganizationRequest is the payload for provisioning an organization.
type CreateOrganizationRequest struct {
	Name           string `json:"name" validate:"required"`
	Slug           string `json:"slug" validate:"required"`
	OwnerID        string `json:"owner_id" validate:"required"`
	PrimaryColor   string `json:"primary_color,omitempty"`
	SecondaryColor string `json:"secondary_color,omitempty"`
	// PromoCode optionally redeems a lifetime-deal code during provisioning.
	PromoCode string `json:"promo_code,omitempty"`
}

func (r *CreateOrganizationRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return ierr.WithError(err).
			WithHint("Invalid organization request").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ToOrganization builds the domain organization for provisioning. New
// organizations always start in trial.
func (r *CreateOrganizationRequest) ToOrganization(ctx context.Context) *organization.Organization {
	trialEndsAt := time.Now().UTC().AddDate(0, 0, TrialPeriodDays)
	return &organization.Organization{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ORGANIZATION),
		Name:               r.Name,
		Slug:               strings.ToLower(strings.TrimSpace(r.Slug)),
		OwnerID:            r.OwnerID,
		SubscriptionStatus: types.SubscriptionStatusTrial,
		TrialEndsAt:        &trialEndsAt,
		PrimaryColor:       r.PrimaryColor,
		SecondaryColor:     r.SecondaryColor,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}
}

// UpdateBrandingRequest edits the white-label appearance of an organization.
type UpdateBrandingRequest struct {
	PrimaryColor   *string `json:"primary_color,omitempty"`
	SecondaryColor *string `json:"secondary_color,omitempty"`
	CustomDomain   *string `json:"custom_domain,omitempty"`
}

// OrganizationResponse is the API representation of an organization.
type OrganizationResponse struct {
	*organization.Organization
	// TrialExpired is derived at read time, never stored.
	TrialExpired bool `json:"trial_expired"`
}

// NewOrganizationResponse builds the response for an organization.
func NewOrganizationResponse(org *organization.Organization) *OrganizationResponse {
	return &OrganizationResponse{
		Organization: org,
		TrialExpired: org.IsTrialExpired(time.Now().UTC()),
	}
}

// ListOrganizationsResponse is the paginated organization list envelope.
type ListOrganizationsResponse = types.ListResponse[*OrganizationResponse]
