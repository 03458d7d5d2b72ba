package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCan(t *testing.T) {
	course := PermissionResource{Type: "course", OrganizationID: "org_1"}
	billing := PermissionResource{Type: "billing", OrganizationID: "org_1"}

	admin := Actor{UserID: "u1", OrganizationID: "org_1", Role: UserRoleAdmin}
	assert.True(t, Can(admin, ActionCreate, course))
	assert.True(t, Can(admin, ActionManage, billing))

	instructor := Actor{UserID: "u2", OrganizationID: "org_1", Role: UserRoleInstructor}
	assert.True(t, Can(instructor, ActionCreate, course))
	assert.True(t, Can(instructor, ActionRead, billing))
	assert.False(t, Can(instructor, ActionManage, billing))

	learner := Actor{UserID: "u3", OrganizationID: "org_1", Role: UserRoleLearner}
	assert.True(t, Can(learner, ActionRead, course))
	assert.False(t, Can(learner, ActionCreate, course))
}

func TestCanCrossOrganization(t *testing.T) {
	foreign := PermissionResource{Type: "course", OrganizationID: "org_other"}

	admin := Actor{UserID: "u1", OrganizationID: "org_1", Role: UserRoleAdmin}
	assert.False(t, Can(admin, ActionRead, foreign))

	super := Actor{UserID: "u0", Role: UserRoleSuperAdmin}
	assert.True(t, Can(super, ActionManage, foreign))
}
