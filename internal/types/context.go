package types

import "context"

type ContextKey string

const (
	CtxRequestID      ContextKey = "ctx_request_id"
	CtxUserID         ContextKey = "ctx_user_id"
	CtxOrganizationID ContextKey = "ctx_organization_id"
	CtxUserRole       ContextKey = "ctx_user_role"
)

// DefaultUserID is used as the audit actor when no user is present in the
// context, e.g. webhook-driven mutations.
const DefaultUserID = "system"

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(CtxRequestID).(string); ok {
		return id
	}
	return ""
}

func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(CtxUserID).(string); ok {
		return id
	}
	return ""
}

func GetOrganizationID(ctx context.Context) string {
	if id, ok := ctx.Value(CtxOrganizationID).(string); ok {
		return id
	}
	return ""
}

func GetUserRole(ctx context.Context) UserRole {
	if role, ok := ctx.Value(CtxUserRole).(UserRole); ok {
		return role
	}
	return ""
}

func SetRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CtxRequestID, id)
}

func SetUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CtxUserID, id)
}

func SetOrganizationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CtxOrganizationID, id)
}

func SetUserRole(ctx context.Context, role UserRole) context.Context {
	return context.WithValue(ctx, CtxUserRole, role)
}
