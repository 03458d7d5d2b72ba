package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/teris-io/shortid"

	"github.com/courseforge/courseforge/internal/api/dto"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/types"
)

// OnboardingService provisions organizations. Provisioning is a compensating
// sequence: create the org, bind the owner, optionally redeem a lifetime-deal
// code. A failure at any step rolls back the steps before it so an org is
// never left without an owner.
type OnboardingService interface {
	CreateOrganization(ctx context.Context, req *dto.CreateOrganizationRequest) (*dto.OrganizationResponse, error)

	// SuggestSlug returns a free slug derived from the requested one,
	// appending a short random suffix while taken.
	SuggestSlug(ctx context.Context, requested string) (string, error)
}

var slugSuffixPattern = regexp.MustCompile(`[^a-z0-9]`)

type onboardingService struct {
	ServiceParams
	promoService PromoCodeService
}

// NewOnboardingService creates an onboarding service.
func NewOnboardingService(params ServiceParams) OnboardingService {
	return &onboardingService{
		ServiceParams: params,
		promoService:  NewPromoCodeService(params),
	}
}

func (s *onboardingService) CreateOrganization(ctx context.Context, req *dto.CreateOrganizationRequest) (*dto.OrganizationResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	org := req.ToOrganization(ctx)
	if err := org.Validate(); err != nil {
		return nil, err
	}

	owner, err := s.UserRepo.Get(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}
	if owner.OrganizationID != "" {
		return nil, ierr.NewError("owner already belongs to an organization").
			WithHint("This user already owns or belongs to an organization").
			WithReportableDetails(map[string]any{"owner_id": owner.ID}).
			Mark(ierr.ErrInvalidOperation)
	}

	// A lifetime-deal code is validated before any write so a bad code fails
	// the request without side effects.
	if req.PromoCode != "" {
		pc, err := s.promoService.ValidateCode(ctx, req.PromoCode)
		if err != nil {
			return nil, err
		}
		if pc.Type != types.PromoCodeTypeLifetimeDeal {
			return nil, ierr.NewError("promo code is not a lifetime deal").
				WithHint("Only lifetime-deal codes can be redeemed during signup").
				Mark(ierr.ErrInvalidOperation)
		}
	}

	// The uniqueness read is advisory; the slug column's unique index is the
	// real arbiter, and a lost race surfaces as the same "taken" error.
	if existing, err := s.OrgRepo.GetBySlug(ctx, org.Slug); err == nil && existing != nil {
		return nil, slugTakenError(org.Slug)
	} else if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}

	if err := s.OrgRepo.Create(ctx, org); err != nil {
		return nil, err
	}

	if err := s.bindOwner(ctx, owner.ID, org.ID); err != nil {
		s.compensate(ctx, "owner binding failed", func() error {
			return s.OrgRepo.Delete(ctx, org.ID)
		})
		return nil, err
	}

	if req.PromoCode != "" {
		if _, err := s.promoService.RedeemLifetime(ctx, req.PromoCode, org.ID, owner.ID); err != nil {
			s.compensate(ctx, "promo redemption failed", func() error {
				if err := s.unbindOwner(ctx, owner.ID); err != nil {
					return err
				}
				return s.OrgRepo.Delete(ctx, org.ID)
			})
			return nil, err
		}

		org.SubscriptionStatus = types.SubscriptionStatusLifetime
		org.TrialEndsAt = nil
		org.UpdatedAt = time.Now().UTC()
		if err := s.OrgRepo.Update(ctx, org); err != nil {
			s.compensate(ctx, "lifetime status update failed", func() error {
				if err := s.unbindOwner(ctx, owner.ID); err != nil {
					return err
				}
				return s.OrgRepo.Delete(ctx, org.ID)
			})
			return nil, err
		}
	}

	s.Logger.Infow("provisioned organization",
		"organization_id", org.ID,
		"slug", org.Slug,
		"owner_id", owner.ID,
		"subscription_status", org.SubscriptionStatus)

	return dto.NewOrganizationResponse(org), nil
}

func (s *onboardingService) SuggestSlug(ctx context.Context, requested string) (string, error) {
	base := strings.ToLower(strings.TrimSpace(requested))
	if base == "" {
		return "", ierr.NewError("slug is required").
			WithHint("A slug to check is required").
			Mark(ierr.ErrValidation)
	}

	candidate := base
	for i := 0; i < 5; i++ {
		_, err := s.OrgRepo.GetBySlug(ctx, candidate)
		if ierr.IsNotFound(err) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}

		suffix, err := shortid.Generate()
		if err != nil {
			return "", ierr.WithError(err).
				WithHint("Failed to generate slug suffix").
				Mark(ierr.ErrSystem)
		}
		// The generator's alphabet includes characters the slug pattern
		// rejects; keep only lowercase alphanumerics.
		cleaned := slugSuffixPattern.ReplaceAllString(strings.ToLower(suffix), "")
		if cleaned == "" {
			continue
		}
		candidate = fmt.Sprintf("%s-%s", base, cleaned)
	}

	return "", ierr.NewError("could not find a free slug").
		WithHint("Try a different organization name").
		Mark(ierr.ErrSystem)
}

func (s *onboardingService) bindOwner(ctx context.Context, userID, organizationID string) error {
	owner, err := s.UserRepo.Get(ctx, userID)
	if err != nil {
		return err
	}
	owner.OrganizationID = organizationID
	owner.Role = types.UserRoleAdmin
	owner.UpdatedAt = time.Now().UTC()
	return s.UserRepo.Update(ctx, owner)
}

func (s *onboardingService) unbindOwner(ctx context.Context, userID string) error {
	owner, err := s.UserRepo.Get(ctx, userID)
	if err != nil {
		return err
	}
	owner.OrganizationID = ""
	owner.Role = types.UserRoleLearner
	owner.UpdatedAt = time.Now().UTC()
	return s.UserRepo.Update(ctx, owner)
}

// compensate runs a rollback step. A failed rollback is logged loudly but not
// returned; the original error is the one the caller needs.
func (s *onboardingService) compensate(_ context.Context, reason string, undo func() error) {
	if err := undo(); err != nil {
		s.Logger.Errorw("provisioning rollback failed", "reason", reason, "error", err)
	} else {
		s.Logger.Warnw("provisioning rolled back", "reason", reason)
	}
}

func slugTakenError(slug string) error {
	return ierr.NewError("organization slug already taken").
		WithHint("This organization name is already taken").
		WithReportableDetails(map[string]any{"slug": slug}).
		Mark(ierr.ErrAlreadyExists)
}
