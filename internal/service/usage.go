package service

import (
	"context"

	"github.com/sourcegraph/conc/pool"

	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/types"
)

// UsageService counts billable resources per organization.
type UsageService interface {
	// GetUsageCounts returns current counts for all limit-bearing resources.
	GetUsageCounts(ctx context.Context, organizationID string) (*types.UsageCounts, error)
	// GetResourceCount returns the count for a single resource type.
	GetResourceCount(ctx context.Context, organizationID string, resource types.ResourceType) (int, error)
}

type usageService struct {
	ServiceParams
}

// NewUsageService creates a usage service.
func NewUsageService(params ServiceParams) UsageService {
	return &usageService{ServiceParams: params}
}

// GetUsageCounts runs the three resource counts concurrently. A failure in any
// count fails the whole call; the gate layer treats that as a denial.
func (s *usageService) GetUsageCounts(ctx context.Context, organizationID string) (*types.UsageCounts, error) {
	if organizationID == "" {
		return nil, ierr.NewError("organization_id is required").
			WithHint("Organization ID is required").
			Mark(ierr.ErrValidation)
	}

	counts := &types.UsageCounts{}

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		n, err := s.CourseRepo.CountByOrganization(ctx, organizationID)
		if err != nil {
			return err
		}
		counts.Courses = n
		return nil
	})
	p.Go(func(ctx context.Context) error {
		n, err := s.UserRepo.CountByOrganizationAndRole(ctx, organizationID, types.UserRoleInstructor)
		if err != nil {
			return err
		}
		counts.Instructors = n
		return nil
	})
	p.Go(func(ctx context.Context) error {
		n, err := s.UserRepo.CountByOrganizationAndRole(ctx, organizationID, types.UserRoleLearner)
		if err != nil {
			return err
		}
		counts.Learners = n
		return nil
	})

	if err := p.Wait(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to count organization usage").
			WithReportableDetails(map[string]any{"organization_id": organizationID}).
			Mark(ierr.ErrDatabase)
	}

	return counts, nil
}

func (s *usageService) GetResourceCount(ctx context.Context, organizationID string, resource types.ResourceType) (int, error) {
	if err := resource.Validate(); err != nil {
		return 0, err
	}

	switch resource {
	case types.ResourceCourses:
		return s.CourseRepo.CountByOrganization(ctx, organizationID)
	case types.ResourceInstructors:
		return s.UserRepo.CountByOrganizationAndRole(ctx, organizationID, types.UserRoleInstructor)
	case types.ResourceLearners:
		return s.UserRepo.CountByOrganizationAndRole(ctx, organizationID, types.UserRoleLearner)
	default:
		return 0, ierr.NewErrorf("unknown resource type %s", resource).
			Mark(ierr.ErrValidation)
	}
}
