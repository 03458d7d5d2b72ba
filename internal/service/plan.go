package service

import (
	"context"
	"fmt"
	"time"

	"github.com/courseforge/courseforge/internal/api/dto"
	"github.com/courseforge/courseforge/internal/domain/plan"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/types"
)

const (
	planCacheTTL       = 5 * time.Minute
	planCacheKeyPrefix = "plan:"
)

// PlanService manages the subscription plan catalog.
type PlanService interface {
	CreatePlan(ctx context.Context, req *dto.CreatePlanRequest) (*dto.PlanResponse, error)
	GetPlan(ctx context.Context, id string) (*dto.PlanResponse, error)
	GetPlanBySlug(ctx context.Context, slug string) (*dto.PlanResponse, error)
	UpdatePlan(ctx context.Context, id string, req *dto.UpdatePlanRequest) (*dto.PlanResponse, error)
	ListPlans(ctx context.Context, filter *plan.Filter) (*dto.ListPlansResponse, error)
}

type planService struct {
	ServiceParams
}

// NewPlanService creates a plan service.
func NewPlanService(params ServiceParams) PlanService {
	return &planService{ServiceParams: params}
}

func (s *planService) CreatePlan(ctx context.Context, req *dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := req.ToPlan(ctx)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.PlanRepo.GetBySlug(ctx, p.Slug); err == nil && existing != nil {
		return nil, ierr.NewError("plan slug already exists").
			WithHint("A plan with this slug already exists").
			WithReportableDetails(map[string]any{"slug": p.Slug}).
			Mark(ierr.ErrAlreadyExists)
	} else if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}

	if err := s.PlanRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.Logger.Infow("created plan", "plan_id", p.ID, "slug", p.Slug)
	return dto.NewPlanResponse(p), nil
}

func (s *planService) GetPlan(ctx context.Context, id string) (*dto.PlanResponse, error) {
	if id == "" {
		return nil, ierr.NewError("plan id is required").
			WithHint("Plan ID is required").
			Mark(ierr.ErrValidation)
	}

	if cached, ok := s.Cache.Get(ctx, planCacheKey(id)); ok {
		if p, ok := cached.(*plan.Plan); ok {
			return dto.NewPlanResponse(p), nil
		}
	}

	p, err := s.PlanRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, planCacheKey(id), p, planCacheTTL)
	return dto.NewPlanResponse(p), nil
}

func (s *planService) GetPlanBySlug(ctx context.Context, slug string) (*dto.PlanResponse, error) {
	if slug == "" {
		return nil, ierr.NewError("plan slug is required").
			WithHint("Plan slug is required").
			Mark(ierr.ErrValidation)
	}

	p, err := s.PlanRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return dto.NewPlanResponse(p), nil
}

// UpdatePlan applies a partial update. Limit changes affect future gate checks
// immediately; price changes only apply to new checkouts.
func (s *planService) UpdatePlan(ctx context.Context, id string, req *dto.UpdatePlanRequest) (*dto.PlanResponse, error) {
	p, err := s.PlanRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.PriceMonthly != nil {
		p.PriceMonthly = *req.PriceMonthly
	}
	if req.PriceYearly != nil {
		p.PriceYearly = *req.PriceYearly
	}
	if req.Limits != nil {
		p.Limits = *req.Limits
	}
	if req.Features != nil {
		p.Features = req.Features
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	p.UpdatedAt = time.Now().UTC()
	p.UpdatedBy = types.GetUserID(ctx)

	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.PlanRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.Cache.Delete(ctx, planCacheKey(id))
	s.Logger.Infow("updated plan", "plan_id", p.ID, "slug", p.Slug)
	return dto.NewPlanResponse(p), nil
}

func (s *planService) ListPlans(ctx context.Context, filter *plan.Filter) (*dto.ListPlansResponse, error) {
	if filter == nil {
		filter = &plan.Filter{QueryFilter: types.NewDefaultQueryFilter()}
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.QueryFilter.Validate(); err != nil {
		return nil, err
	}

	plans, err := s.PlanRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.PlanRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.PlanResponse, len(plans))
	for i, p := range plans {
		items[i] = dto.NewPlanResponse(p)
	}

	resp := types.NewListResponse(items, total, filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}

func planCacheKey(id string) string {
	return fmt.Sprintf("%s%s", planCacheKeyPrefix, id)
}
