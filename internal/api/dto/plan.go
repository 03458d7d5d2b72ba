package dto

import (
	"context"

	"github.com/courseforge/courseforge/internal/domain/plan"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/types"
)

// CreatePlanRequest is the payload for creating a subscription plan.
type CreatePlanRequest struct {
	Slug         string            `json:"slug" validate:"required"`
	Name         string            `json:"name" validate:"required"`
	Description  string            `json:"description,omitempty"`
	PriceMonthly int64             `json:"price_monthly" validate:"gte=0"`
	PriceYearly  int64             `json:"price_yearly" validate:"gte=0"`
	Limits       types.PlanLimits  `json:"limits"`
	Features     map[string]string `json:"features,omitempty"`
	IsActive     bool              `json:"is_active"`
}

func (r *CreatePlanRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return ierr.WithError(err).
			WithHint("Invalid plan request").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ToPlan builds the domain plan.
func (r *CreatePlanRequest) ToPlan(ctx context.Context) *plan.Plan {
	return &plan.Plan{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN),
		Slug:         r.Slug,
		Name:         r.Name,
		Description:  r.Description,
		PriceMonthly: r.PriceMonthly,
		PriceYearly:  r.PriceYearly,
		Limits:       r.Limits,
		Features:     r.Features,
		IsActive:     r.IsActive,
		BaseModel:    types.GetDefaultBaseModel(ctx),
	}
}

// UpdatePlanRequest is the payload for editing a plan. Price and feature edits
// do not retroactively affect existing billing periods.
type UpdatePlanRequest struct {
	Name         *string           `json:"name,omitempty"`
	Description  *string           `json:"description,omitempty"`
	PriceMonthly *int64            `json:"price_monthly,omitempty"`
	PriceYearly  *int64            `json:"price_yearly,omitempty"`
	Limits       *types.PlanLimits `json:"limits,omitempty"`
	Features     map[string]string `json:"features,omitempty"`
	IsActive     *bool             `json:"is_active,omitempty"`
}

// PlanResponse is the API representation of a plan.
type PlanResponse struct {
	*plan.Plan
}

// NewPlanResponse builds the response for a plan.
func NewPlanResponse(p *plan.Plan) *PlanResponse {
	return &PlanResponse{Plan: p}
}

// ListPlansResponse is the paginated plan list envelope.
type ListPlansResponse = types.ListResponse[*PlanResponse]
