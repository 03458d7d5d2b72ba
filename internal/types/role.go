package types

// UserRole is the platform role of a profile within its organization.
type UserRole string

const (
	UserRoleAdmin      UserRole = "admin"
	UserRoleInstructor UserRole = "instructor"
	UserRoleLearner    UserRole = "learner"
	UserRoleSuperAdmin UserRole = "super_admin"
)

// Action is a permission-checked operation on a resource.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionManage Action = "manage"
)

// Actor is the subject of a permission check.
type Actor struct {
	UserID         string
	OrganizationID string
	Role           UserRole
}

// PermissionResource is the object of a permission check.
type PermissionResource struct {
	Type           string
	OrganizationID string
}

// Can is the single permission-check entry point, replacing inline role
// comparisons at call sites.
func Can(actor Actor, action Action, resource PermissionResource) bool {
	if actor.Role == UserRoleSuperAdmin {
		return true
	}

	// Cross-organization access is never granted below super admin.
	if resource.OrganizationID != "" && actor.OrganizationID != resource.OrganizationID {
		return false
	}

	switch actor.Role {
	case UserRoleAdmin:
		return true
	case UserRoleInstructor:
		switch resource.Type {
		case "course", "lesson", "module":
			return true
		default:
			return action == ActionRead
		}
	case UserRoleLearner:
		return action == ActionRead
	}
	return false
}
