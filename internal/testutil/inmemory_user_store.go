package testutil

import (
	"context"

	"github.com/samber/lo"

	"github.com/courseforge/courseforge/internal/domain/user"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/types"
)

// InMemoryUserStore implements user.Repository
type InMemoryUserStore struct {
	*InMemoryStore[*user.User]
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{
		InMemoryStore: NewInMemoryStore[*user.User](),
	}
}

func copyUser(u *user.User) *user.User {
	if u == nil {
		return nil
	}
	copied := *u
	return &copied
}

func (s *InMemoryUserStore) Create(ctx context.Context, u *user.User) error {
	return s.InMemoryStore.Create(ctx, u.ID, copyUser(u))
}

func (s *InMemoryUserStore) Get(ctx context.Context, id string) (*user.User, error) {
	u, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("user not found").
			WithHint("User not found").
			WithReportableDetails(map[string]interface{}{"id": id}).
			Mark(ierr.ErrNotFound)
	}
	return copyUser(u), nil
}

func (s *InMemoryUserStore) Update(ctx context.Context, u *user.User) error {
	return s.InMemoryStore.Update(ctx, u.ID, copyUser(u))
}

func (s *InMemoryUserStore) CountByOrganizationAndRole(ctx context.Context, organizationID string, role types.UserRole) (int, error) {
	count := 0
	for _, u := range s.All(ctx) {
		if u.OrganizationID == organizationID && u.Role == role {
			count++
		}
	}
	return count, nil
}

func (s *InMemoryUserStore) ListByOrganization(ctx context.Context, organizationID string, _ *types.QueryFilter) ([]*user.User, error) {
	users := lo.Filter(s.All(ctx), func(u *user.User, _ int) bool {
		return u.OrganizationID == organizationID
	})
	return lo.Map(users, func(u *user.User, _ int) *user.User { return copyUser(u) }), nil
}
