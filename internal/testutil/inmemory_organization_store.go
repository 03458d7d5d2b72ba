package testutil

import (
	"context"

	"github.com/samber/lo"

	"github.com/courseforge/courseforge/internal/domain/organization"
	ierr "github.com/courseforge/courseforge/internal/errors"
)

// InMemoryOrganizationStore implements organization.Repository
type InMemoryOrganizationStore struct {
	*InMemoryStore[*organization.Organization]
}

func NewInMemoryOrganizationStore() *InMemoryOrganizationStore {
	return &InMemoryOrganizationStore{
		InMemoryStore: NewInMemoryStore[*organization.Organization](),
	}
}

func copyOrganization(o *organization.Organization) *organization.Organization {
	if o == nil {
		return nil
	}
	copied := *o
	if o.TrialEndsAt != nil {
		t := *o.TrialEndsAt
		copied.TrialEndsAt = &t
	}
	if o.CustomDomain != nil {
		d := *o.CustomDomain
		copied.CustomDomain = &d
	}
	return &copied
}

func (s *InMemoryOrganizationStore) Create(ctx context.Context, org *organization.Organization) error {
	// The slug column carries a unique index; the store mirrors it.
	if _, err := s.GetBySlug(ctx, org.Slug); err == nil {
		return ierr.NewError("organization slug already exists").
			WithHint("This organization name is already taken").
			WithReportableDetails(map[string]interface{}{"slug": org.Slug}).
			Mark(ierr.ErrAlreadyExists)
	}
	return s.InMemoryStore.Create(ctx, org.ID, copyOrganization(org))
}

func (s *InMemoryOrganizationStore) Get(ctx context.Context, id string) (*organization.Organization, error) {
	org, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("organization not found").
			WithHint("Organization not found").
			WithReportableDetails(map[string]interface{}{"id": id}).
			Mark(ierr.ErrNotFound)
	}
	return copyOrganization(org), nil
}

func (s *InMemoryOrganizationStore) GetBySlug(ctx context.Context, slug string) (*organization.Organization, error) {
	for _, org := range s.All(ctx) {
		if org.Slug == slug {
			return copyOrganization(org), nil
		}
	}
	return nil, ierr.NewError("organization not found").
		WithHint("Organization not found").
		WithReportableDetails(map[string]interface{}{"slug": slug}).
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryOrganizationStore) Update(ctx context.Context, org *organization.Organization) error {
	return s.InMemoryStore.Update(ctx, org.ID, copyOrganization(org))
}

func (s *InMemoryOrganizationStore) Delete(ctx context.Context, id string) error {
	return s.InMemoryStore.Delete(ctx, id)
}

func (s *InMemoryOrganizationStore) List(ctx context.Context, filter *organization.Filter) ([]*organization.Organization, error) {
	orgs := lo.Filter(s.All(ctx), func(o *organization.Organization, _ int) bool {
		return organizationMatchesFilter(o, filter)
	})
	return lo.Map(orgs, func(o *organization.Organization, _ int) *organization.Organization {
		return copyOrganization(o)
	}), nil
}

func (s *InMemoryOrganizationStore) Count(ctx context.Context, filter *organization.Filter) (int, error) {
	orgs, err := s.List(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(orgs), nil
}

func organizationMatchesFilter(o *organization.Organization, filter *organization.Filter) bool {
	if filter == nil {
		return true
	}
	if len(filter.OrganizationIDs) > 0 && !lo.Contains(filter.OrganizationIDs, o.ID) {
		return false
	}
	if len(filter.SubscriptionStatuses) > 0 && !lo.Contains(filter.SubscriptionStatuses, o.SubscriptionStatus) {
		return false
	}
	return true
}
