package testutil

import (
	"context"

	"github.com/samber/lo"

	"github.com/courseforge/courseforge/internal/domain/course"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/types"
)

// InMemoryCourseStore implements course.Repository
type InMemoryCourseStore struct {
	*InMemoryStore[*course.Course]
}

func NewInMemoryCourseStore() *InMemoryCourseStore {
	return &InMemoryCourseStore{
		InMemoryStore: NewInMemoryStore[*course.Course](),
	}
}

func copyCourse(c *course.Course) *course.Course {
	if c == nil {
		return nil
	}
	copied := *c
	if c.PublishedAt != nil {
		t := *c.PublishedAt
		copied.PublishedAt = &t
	}
	return &copied
}

func (s *InMemoryCourseStore) Create(ctx context.Context, c *course.Course) error {
	return s.InMemoryStore.Create(ctx, c.ID, copyCourse(c))
}

func (s *InMemoryCourseStore) Get(ctx context.Context, id string) (*course.Course, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("course not found").
			WithHint("Course not found").
			WithReportableDetails(map[string]interface{}{"id": id}).
			Mark(ierr.ErrNotFound)
	}
	return copyCourse(c), nil
}

func (s *InMemoryCourseStore) Update(ctx context.Context, c *course.Course) error {
	return s.InMemoryStore.Update(ctx, c.ID, copyCourse(c))
}

func (s *InMemoryCourseStore) Delete(ctx context.Context, id string) error {
	return s.InMemoryStore.Delete(ctx, id)
}

func (s *InMemoryCourseStore) CountByOrganization(ctx context.Context, organizationID string) (int, error) {
	count := 0
	for _, c := range s.All(ctx) {
		if c.OrganizationID == organizationID {
			count++
		}
	}
	return count, nil
}

func (s *InMemoryCourseStore) ListByOrganization(ctx context.Context, organizationID string, _ *types.QueryFilter) ([]*course.Course, error) {
	courses := lo.Filter(s.All(ctx), func(c *course.Course, _ int) bool {
		return c.OrganizationID == organizationID
	})
	return lo.Map(courses, func(c *course.Course, _ int) *course.Course { return copyCourse(c) }), nil
}
