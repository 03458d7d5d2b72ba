package organization

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"github.com/courseforge/courseforge/internal/types"
)

func validOrg() *Organization {
	return &Organization{
		ID:                 "org_1",
		Name:               "Acme Academy",
		Slug:               "acme-academy",
		OwnerID:            "user_1",
		SubscriptionStatus: types.SubscriptionStatusTrial,
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validOrg().Validate())

	noName := validOrg()
	noName.Name = ""
	assert.Error(t, noName.Validate())

	noOwner := validOrg()
	noOwner.OwnerID = ""
	assert.Error(t, noOwner.Validate())
}

func TestValidateSlug(t *testing.T) {
	for _, slug := range []string{"acme", "acme-academy", "a1-b2-c3"} {
		org := validOrg()
		org.Slug = slug
		assert.NoError(t, org.Validate(), slug)
	}
	for _, slug := range []string{"", "Acme", "acme academy", "acme-", "-acme", "acme--academy", "acme_academy"} {
		org := validOrg()
		org.Slug = slug
		assert.Error(t, org.Validate(), slug)
	}
}

func TestIsTrialExpired(t *testing.T) {
	now := time.Now().UTC()

	org := validOrg()
	org.TrialEndsAt = lo.ToPtr(now.Add(-time.Hour))
	assert.True(t, org.IsTrialExpired(now))

	org.TrialEndsAt = lo.ToPtr(now.Add(time.Hour))
	assert.False(t, org.IsTrialExpired(now))

	// Expiry is only meaningful for trial orgs.
	org.SubscriptionStatus = types.SubscriptionStatusActive
	org.TrialEndsAt = lo.ToPtr(now.Add(-time.Hour))
	assert.False(t, org.IsTrialExpired(now))

	org.SubscriptionStatus = types.SubscriptionStatusTrial
	org.TrialEndsAt = nil
	assert.False(t, org.IsTrialExpired(now))
}
