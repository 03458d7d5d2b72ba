package service

import (
	"context"
	"time"

	"github.com/courseforge/courseforge/internal/api/dto"
	"github.com/courseforge/courseforge/internal/domain/organization"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/types"
)

// OrganizationService reads and edits existing organizations. Provisioning
// lives in OnboardingService; subscription status moves only through the
// lifecycle handler or a lifetime redemption.
type OrganizationService interface {
	GetOrganization(ctx context.Context, id string) (*dto.OrganizationResponse, error)
	GetOrganizationBySlug(ctx context.Context, slug string) (*dto.OrganizationResponse, error)
	UpdateBranding(ctx context.Context, id string, req *dto.UpdateBrandingRequest) (*dto.OrganizationResponse, error)
	ListOrganizations(ctx context.Context, filter *organization.Filter) (*dto.ListOrganizationsResponse, error)
}

type organizationService struct {
	ServiceParams
}

// NewOrganizationService creates an organization service.
func NewOrganizationService(params ServiceParams) OrganizationService {
	return &organizationService{ServiceParams: params}
}

func (s *organizationService) GetOrganization(ctx context.Context, id string) (*dto.OrganizationResponse, error) {
	org, err := s.OrgRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewOrganizationResponse(org), nil
}

func (s *organizationService) GetOrganizationBySlug(ctx context.Context, slug string) (*dto.OrganizationResponse, error) {
	if slug == "" {
		return nil, ierr.NewError("slug is required").
			WithHint("Organization slug is required").
			Mark(ierr.ErrValidation)
	}
	org, err := s.OrgRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return dto.NewOrganizationResponse(org), nil
}

func (s *organizationService) UpdateBranding(ctx context.Context, id string, req *dto.UpdateBrandingRequest) (*dto.OrganizationResponse, error) {
	org, err := s.OrgRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.PrimaryColor != nil {
		org.PrimaryColor = *req.PrimaryColor
	}
	if req.SecondaryColor != nil {
		org.SecondaryColor = *req.SecondaryColor
	}
	if req.CustomDomain != nil {
		org.CustomDomain = req.CustomDomain
	}
	org.UpdatedAt = time.Now().UTC()
	org.UpdatedBy = types.GetUserID(ctx)

	if err := s.OrgRepo.Update(ctx, org); err != nil {
		return nil, err
	}
	return dto.NewOrganizationResponse(org), nil
}

func (s *organizationService) ListOrganizations(ctx context.Context, filter *organization.Filter) (*dto.ListOrganizationsResponse, error) {
	if filter == nil {
		filter = &organization.Filter{QueryFilter: types.NewDefaultQueryFilter()}
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.QueryFilter.Validate(); err != nil {
		return nil, err
	}

	orgs, err := s.OrgRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.OrgRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.OrganizationResponse, len(orgs))
	for i, org := range orgs {
		items[i] = dto.NewOrganizationResponse(org)
	}

	resp := types.NewListResponse(items, total, filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}
