package testutil

import (
	"context"
	"sort"

	"github.com/samber/lo"

	"github.com/courseforge/courseforge/internal/domain/promocode"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/types"
)

// InMemoryPromoCodeStore implements promocode.Repository
type InMemoryPromoCodeStore struct {
	*InMemoryStore[*promocode.PromoCode]
	redemptions *InMemoryStore[*promocode.Redemption]
}

func NewInMemoryPromoCodeStore() *InMemoryPromoCodeStore {
	return &InMemoryPromoCodeStore{
		InMemoryStore: NewInMemoryStore[*promocode.PromoCode](),
		redemptions:   NewInMemoryStore[*promocode.Redemption](),
	}
}

func copyPromoCode(pc *promocode.PromoCode) *promocode.PromoCode {
	if pc == nil {
		return nil
	}
	copied := *pc
	if pc.DiscountPercent != nil {
		v := *pc.DiscountPercent
		copied.DiscountPercent = &v
	}
	if pc.DiscountAmount != nil {
		v := *pc.DiscountAmount
		copied.DiscountAmount = &v
	}
	if pc.MaxRedemptions != nil {
		v := *pc.MaxRedemptions
		copied.MaxRedemptions = &v
	}
	if pc.LifetimeLimits != nil {
		v := *pc.LifetimeLimits
		copied.LifetimeLimits = &v
	}
	if pc.ValidUntil != nil {
		t := *pc.ValidUntil
		copied.ValidUntil = &t
	}
	return &copied
}

func (s *InMemoryPromoCodeStore) Create(ctx context.Context, pc *promocode.PromoCode) error {
	return s.InMemoryStore.Create(ctx, pc.ID, copyPromoCode(pc))
}

func (s *InMemoryPromoCodeStore) Get(ctx context.Context, id string) (*promocode.PromoCode, error) {
	pc, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, promoCodeNotFound(map[string]interface{}{"id": id})
	}
	return copyPromoCode(pc), nil
}

func (s *InMemoryPromoCodeStore) GetByCode(ctx context.Context, code string) (*promocode.PromoCode, error) {
	for _, pc := range s.All(ctx) {
		if pc.Code == code {
			return copyPromoCode(pc), nil
		}
	}
	return nil, promoCodeNotFound(map[string]interface{}{"code": code})
}

func (s *InMemoryPromoCodeStore) Update(ctx context.Context, pc *promocode.PromoCode) error {
	return s.InMemoryStore.Update(ctx, pc.ID, copyPromoCode(pc))
}

// IncrementRedemptions mirrors the SQL repository's atomic counter bump: the
// increment happens under the store lock, never read-modify-write outside it.
func (s *InMemoryPromoCodeStore) IncrementRedemptions(ctx context.Context, id string) error {
	return s.InMemoryStore.Mutate(ctx, id, func(pc *promocode.PromoCode) *promocode.PromoCode {
		pc.RedemptionsCount++
		return pc
	})
}

func (s *InMemoryPromoCodeStore) CreateRedemption(ctx context.Context, redemption *promocode.Redemption) error {
	r := *redemption
	return s.redemptions.Create(ctx, redemption.ID, &r)
}

func (s *InMemoryPromoCodeStore) ListRedemptionsByOrganization(ctx context.Context, organizationID string) ([]*promocode.Redemption, error) {
	redemptions := lo.Filter(s.redemptions.All(ctx), func(r *promocode.Redemption, _ int) bool {
		return r.OrganizationID == organizationID
	})
	sort.Slice(redemptions, func(i, j int) bool {
		return redemptions[i].RedeemedAt.After(redemptions[j].RedeemedAt)
	})
	return redemptions, nil
}

func (s *InMemoryPromoCodeStore) GetLifetimeCodeForOrganization(ctx context.Context, organizationID string) (*promocode.PromoCode, error) {
	redemptions, _ := s.ListRedemptionsByOrganization(ctx, organizationID)
	for _, r := range redemptions {
		pc, err := s.Get(ctx, r.PromoCodeID)
		if err != nil {
			continue
		}
		if pc.Type == types.PromoCodeTypeLifetimeDeal {
			return pc, nil
		}
	}
	return nil, promoCodeNotFound(map[string]interface{}{"organization_id": organizationID})
}

func (s *InMemoryPromoCodeStore) List(ctx context.Context, filter *promocode.Filter) ([]*promocode.PromoCode, error) {
	codes := lo.Filter(s.All(ctx), func(pc *promocode.PromoCode, _ int) bool {
		if filter == nil {
			return true
		}
		if len(filter.Types) > 0 && !lo.Contains(filter.Types, pc.Type) {
			return false
		}
		if filter.IsActive != nil && pc.IsActive != *filter.IsActive {
			return false
		}
		return true
	})
	return lo.Map(codes, func(pc *promocode.PromoCode, _ int) *promocode.PromoCode {
		return copyPromoCode(pc)
	}), nil
}

func promoCodeNotFound(details map[string]interface{}) error {
	return ierr.NewError("promo code not found").
		WithHint("Promo code not found").
		WithReportableDetails(details).
		Mark(ierr.ErrNotFound)
}
