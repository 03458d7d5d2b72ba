package service

import (
	"context"
	"time"

	"github.com/courseforge/courseforge/internal/api/dto"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/types"
)

// CourseService owns the course write path. Creation consults the quota gate
// first and aborts on a denial.
type CourseService interface {
	CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	GetCourse(ctx context.Context, id string) (*dto.CourseResponse, error)
	ListCourses(ctx context.Context, organizationID string, filter *types.QueryFilter) ([]*dto.CourseResponse, error)
	PublishCourse(ctx context.Context, id string) (*dto.CourseResponse, error)
	DeleteCourse(ctx context.Context, id string) error
	SetCoverMedia(ctx context.Context, id, url string) (*dto.CourseResponse, error)
}

type courseService struct {
	ServiceParams
	entitlementService EntitlementService
}

// NewCourseService creates a course service.
func NewCourseService(params ServiceParams) CourseService {
	return &courseService{
		ServiceParams:      params,
		entitlementService: NewEntitlementService(params),
	}
}

func (s *courseService) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.requirePermission(ctx, types.ActionCreate, "course", req.OrganizationID); err != nil {
		return nil, err
	}

	gate, err := s.entitlementService.CheckFeatureLimit(ctx, req.OrganizationID, types.ResourceCourses)
	if err != nil {
		return nil, err
	}
	if !gate.Allowed {
		return nil, limitExceededError(types.ResourceCourses, gate)
	}

	c := req.ToCourse(ctx)
	if err := s.CourseRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.Logger.Infow("created course",
		"course_id", c.ID, "organization_id", c.OrganizationID)
	return dto.NewCourseResponse(c), nil
}

func (s *courseService) GetCourse(ctx context.Context, id string) (*dto.CourseResponse, error) {
	c, err := s.CourseRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewCourseResponse(c), nil
}

func (s *courseService) ListCourses(ctx context.Context, organizationID string, filter *types.QueryFilter) ([]*dto.CourseResponse, error) {
	if filter == nil {
		filter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	courses, err := s.CourseRepo.ListByOrganization(ctx, organizationID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.CourseResponse, len(courses))
	for i, c := range courses {
		items[i] = dto.NewCourseResponse(c)
	}
	return items, nil
}

func (s *courseService) PublishCourse(ctx context.Context, id string) (*dto.CourseResponse, error) {
	c, err := s.CourseRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requirePermission(ctx, types.ActionUpdate, "course", c.OrganizationID); err != nil {
		return nil, err
	}

	if c.PublishedAt == nil {
		now := time.Now().UTC()
		c.PublishedAt = &now
		c.UpdatedAt = now
		c.UpdatedBy = types.GetUserID(ctx)
		if err := s.CourseRepo.Update(ctx, c); err != nil {
			return nil, err
		}
	}
	return dto.NewCourseResponse(c), nil
}

func (s *courseService) DeleteCourse(ctx context.Context, id string) error {
	c, err := s.CourseRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requirePermission(ctx, types.ActionDelete, "course", c.OrganizationID); err != nil {
		return err
	}
	return s.CourseRepo.Delete(ctx, id)
}

func (s *courseService) SetCoverMedia(ctx context.Context, id, url string) (*dto.CourseResponse, error) {
	c, err := s.CourseRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requirePermission(ctx, types.ActionUpdate, "course", c.OrganizationID); err != nil {
		return nil, err
	}

	c.CoverMediaURL = url
	c.UpdatedAt = time.Now().UTC()
	c.UpdatedBy = types.GetUserID(ctx)
	if err := s.CourseRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return dto.NewCourseResponse(c), nil
}

// requirePermission resolves the acting user from the context and runs the
// capability check. Requests without a user (scripts) act as system and pass.
func (s *courseService) requirePermission(ctx context.Context, action types.Action, resourceType, organizationID string) error {
	userID := types.GetUserID(ctx)
	if userID == "" || userID == types.DefaultUserID {
		return nil
	}

	actor := types.Actor{
		UserID:         userID,
		OrganizationID: types.GetOrganizationID(ctx),
		Role:           types.GetUserRole(ctx),
	}
	resource := types.PermissionResource{Type: resourceType, OrganizationID: organizationID}

	if !types.Can(actor, action, resource) {
		return ierr.NewError("permission denied").
			WithHint("You do not have permission to perform this action").
			WithReportableDetails(map[string]any{
				"action":   action,
				"resource": resourceType,
			}).
			Mark(ierr.ErrPermissionDenied)
	}
	return nil
}

func limitExceededError(resource types.ResourceType, gate *dto.FeatureLimitResponse) error {
	details := map[string]any{
		"resource": resource,
		"current":  gate.Current,
	}
	if gate.Max != nil {
		details["max"] = *gate.Max
	}
	return ierr.NewError("plan limit reached").
		WithHint("Your plan limit for this resource has been reached").
		WithReportableDetails(details).
		Mark(ierr.ErrLimitExceeded)
}
