package plan

import (
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/types"
)

// Plan is a priced subscription tier defining resource quotas and feature
// flags. Prices are integer minor-currency units.
type Plan struct {
	ID           string            `json:"id"`
	Slug         string            `json:"slug"`
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	PriceMonthly int64             `json:"price_monthly"`
	PriceYearly  int64             `json:"price_yearly"`
	Limits       types.PlanLimits  `json:"limits"`
	Features     map[string]string `json:"features,omitempty"`
	IsActive     bool              `json:"is_active"`
	types.BaseModel
}

// Validate validates the plan
func (p *Plan) Validate() error {
	if p.Slug == "" {
		return ierr.NewError("slug is required").
			WithHint("Plan slug is required").
			Mark(ierr.ErrValidation)
	}
	if p.Name == "" {
		return ierr.NewError("name is required").
			WithHint("Plan name is required").
			Mark(ierr.ErrValidation)
	}
	if p.PriceMonthly < 0 || p.PriceYearly < 0 {
		return ierr.NewError("price cannot be negative").
			WithHint("Plan prices must be 0 or greater").
			Mark(ierr.ErrValidation)
	}
	for _, max := range []*int{p.Limits.MaxCourses, p.Limits.MaxInstructors, p.Limits.MaxLearners} {
		if max != nil && *max < 0 {
			return ierr.NewError("limit cannot be negative").
				WithHint("Plan limits must be 0 or greater, or unset for unlimited").
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// Price returns the plan price for a billing cycle.
func (p *Plan) Price(cycle types.BillingCycle) int64 {
	if cycle == types.BillingCycleYearly {
		return p.PriceYearly
	}
	return p.PriceMonthly
}
