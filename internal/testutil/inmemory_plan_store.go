package testutil

import (
	"context"

	"github.com/samber/lo"

	"github.com/courseforge/courseforge/internal/domain/plan"
	ierr "github.com/courseforge/courseforge/internal/errors"
)

// InMemoryPlanStore implements plan.Repository
type InMemoryPlanStore struct {
	*InMemoryStore[*plan.Plan]
}

func NewInMemoryPlanStore() *InMemoryPlanStore {
	return &InMemoryPlanStore{
		InMemoryStore: NewInMemoryStore[*plan.Plan](),
	}
}

func copyPlan(p *plan.Plan) *plan.Plan {
	if p == nil {
		return nil
	}
	copied := *p
	copied.Features = lo.Assign(map[string]string{}, p.Features)
	if p.Limits.MaxCourses != nil {
		v := *p.Limits.MaxCourses
		copied.Limits.MaxCourses = &v
	}
	if p.Limits.MaxInstructors != nil {
		v := *p.Limits.MaxInstructors
		copied.Limits.MaxInstructors = &v
	}
	if p.Limits.MaxLearners != nil {
		v := *p.Limits.MaxLearners
		copied.Limits.MaxLearners = &v
	}
	return &copied
}

func (s *InMemoryPlanStore) Create(ctx context.Context, p *plan.Plan) error {
	return s.InMemoryStore.Create(ctx, p.ID, copyPlan(p))
}

func (s *InMemoryPlanStore) Get(ctx context.Context, id string) (*plan.Plan, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("plan not found").
			WithHint("Plan not found").
			WithReportableDetails(map[string]interface{}{"id": id}).
			Mark(ierr.ErrNotFound)
	}
	return copyPlan(p), nil
}

func (s *InMemoryPlanStore) GetBySlug(ctx context.Context, slug string) (*plan.Plan, error) {
	for _, p := range s.All(ctx) {
		if p.Slug == slug {
			return copyPlan(p), nil
		}
	}
	return nil, ierr.NewError("plan not found").
		WithHint("Plan not found").
		WithReportableDetails(map[string]interface{}{"slug": slug}).
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryPlanStore) Update(ctx context.Context, p *plan.Plan) error {
	return s.InMemoryStore.Update(ctx, p.ID, copyPlan(p))
}

func (s *InMemoryPlanStore) List(ctx context.Context, filter *plan.Filter) ([]*plan.Plan, error) {
	plans := lo.Filter(s.All(ctx), func(p *plan.Plan, _ int) bool {
		if filter == nil {
			return true
		}
		if len(filter.PlanIDs) > 0 && !lo.Contains(filter.PlanIDs, p.ID) {
			return false
		}
		if filter.IsActive != nil && p.IsActive != *filter.IsActive {
			return false
		}
		return true
	})
	return lo.Map(plans, func(p *plan.Plan, _ int) *plan.Plan { return copyPlan(p) }), nil
}

func (s *InMemoryPlanStore) Count(ctx context.Context, filter *plan.Filter) (int, error) {
	plans, err := s.List(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(plans), nil
}
