package testutil

import (
	"context"

	"github.com/samber/lo"

	"github.com/courseforge/courseforge/internal/domain/subscription"
	ierr "github.com/courseforge/courseforge/internal/errors"
)

// InMemorySubscriptionStore implements subscription.Repository
type InMemorySubscriptionStore struct {
	*InMemoryStore[*subscription.Subscription]
}

func NewInMemorySubscriptionStore() *InMemorySubscriptionStore {
	return &InMemorySubscriptionStore{
		InMemoryStore: NewInMemoryStore[*subscription.Subscription](),
	}
}

func copySubscription(sub *subscription.Subscription) *subscription.Subscription {
	if sub == nil {
		return nil
	}
	copied := *sub
	if sub.CanceledAt != nil {
		t := *sub.CanceledAt
		copied.CanceledAt = &t
	}
	return &copied
}

func (s *InMemorySubscriptionStore) Create(ctx context.Context, sub *subscription.Subscription) error {
	return s.InMemoryStore.Create(ctx, sub.ID, copySubscription(sub))
}

func (s *InMemorySubscriptionStore) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	sub, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, subscriptionNotFound(map[string]interface{}{"id": id})
	}
	return copySubscription(sub), nil
}

// GetLatestByOrganization returns the most recently created row for an
// organization, mirroring the created_at DESC ordering of the SQL repository.
func (s *InMemorySubscriptionStore) GetLatestByOrganization(ctx context.Context, organizationID string) (*subscription.Subscription, error) {
	var latest *subscription.Subscription
	for _, sub := range s.All(ctx) {
		if sub.OrganizationID != organizationID {
			continue
		}
		if latest == nil || sub.CreatedAt.After(latest.CreatedAt) {
			latest = sub
		}
	}
	if latest == nil {
		return nil, subscriptionNotFound(map[string]interface{}{"organization_id": organizationID})
	}
	return copySubscription(latest), nil
}

func (s *InMemorySubscriptionStore) GetByProcessorSubscriptionID(ctx context.Context, processorSubscriptionID string) (*subscription.Subscription, error) {
	for _, sub := range s.All(ctx) {
		if sub.ProcessorSubscriptionID == processorSubscriptionID {
			return copySubscription(sub), nil
		}
	}
	return nil, subscriptionNotFound(map[string]interface{}{
		"processor_subscription_id": processorSubscriptionID,
	})
}

func (s *InMemorySubscriptionStore) Update(ctx context.Context, sub *subscription.Subscription) error {
	return s.InMemoryStore.Update(ctx, sub.ID, copySubscription(sub))
}

func (s *InMemorySubscriptionStore) List(ctx context.Context, filter *subscription.Filter) ([]*subscription.Subscription, error) {
	subs := lo.Filter(s.All(ctx), func(sub *subscription.Subscription, _ int) bool {
		if filter == nil {
			return true
		}
		if len(filter.OrganizationIDs) > 0 && !lo.Contains(filter.OrganizationIDs, sub.OrganizationID) {
			return false
		}
		if len(filter.PlanIDs) > 0 && !lo.Contains(filter.PlanIDs, sub.PlanID) {
			return false
		}
		return true
	})
	return lo.Map(subs, func(sub *subscription.Subscription, _ int) *subscription.Subscription {
		return copySubscription(sub)
	}), nil
}

func subscriptionNotFound(details map[string]interface{}) error {
	return ierr.NewError("subscription not found").
		WithHint("Subscription not found").
		WithReportableDetails(details).
		Mark(ierr.ErrNotFound)
}
