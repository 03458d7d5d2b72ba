package service

import (
	"context"

	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/domain/user"
	"github.com/courseforge/courseforge/internal/types"
)

// RosterService manages organization membership: instructors and learners.
// Both additions are gate-checked against the plan limits.
type RosterService interface {
	AddInstructor(ctx context.Context, organizationID, email, fullName string) (*user.User, error)
	EnrollLearner(ctx context.Context, organizationID, email, fullName string) (*user.User, error)
	ListMembers(ctx context.Context, organizationID string, filter *types.QueryFilter) ([]*user.User, error)
}

type rosterService struct {
	ServiceParams
	entitlementService EntitlementService
}

// NewRosterService creates a roster service.
func NewRosterService(params ServiceParams) RosterService {
	return &rosterService{
		ServiceParams:      params,
		entitlementService: NewEntitlementService(params),
	}
}

func (s *rosterService) AddInstructor(ctx context.Context, organizationID, email, fullName string) (*user.User, error) {
	return s.addMember(ctx, organizationID, email, fullName, types.UserRoleInstructor, types.ResourceInstructors)
}

func (s *rosterService) EnrollLearner(ctx context.Context, organizationID, email, fullName string) (*user.User, error) {
	return s.addMember(ctx, organizationID, email, fullName, types.UserRoleLearner, types.ResourceLearners)
}

func (s *rosterService) addMember(ctx context.Context, organizationID, email, fullName string, role types.UserRole, resource types.ResourceType) (*user.User, error) {
	if organizationID == "" {
		return nil, ierr.NewError("organization_id is required").
			WithHint("Organization ID is required").
			Mark(ierr.ErrValidation)
	}
	if email == "" {
		return nil, ierr.NewError("email is required").
			WithHint("Member email is required").
			Mark(ierr.ErrValidation)
	}

	gate, err := s.entitlementService.CheckFeatureLimit(ctx, organizationID, resource)
	if err != nil {
		return nil, err
	}
	if !gate.Allowed {
		return nil, limitExceededError(resource, gate)
	}

	member := &user.User{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PROFILE),
		Email:          email,
		FullName:       fullName,
		OrganizationID: organizationID,
		Role:           role,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
	if err := member.Validate(); err != nil {
		return nil, err
	}

	if err := s.UserRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	s.Logger.Infow("added organization member",
		"user_id", member.ID,
		"organization_id", organizationID,
		"role", role)
	return member, nil
}

func (s *rosterService) ListMembers(ctx context.Context, organizationID string, filter *types.QueryFilter) ([]*user.User, error) {
	if filter == nil {
		filter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return s.UserRepo.ListByOrganization(ctx, organizationID, filter)
}
