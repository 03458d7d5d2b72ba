package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v4"
	supa "github.com/nedpals/supabase-go"

	"github.com/courseforge/courseforge/internal/config"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/logger"
	"github.com/courseforge/courseforge/internal/types"
)

type supabaseAuth struct {
	authConfig config.AuthConfig
	client     *supa.Client
	logger     *logger.Logger
}

// NewSupabaseAuth creates the Supabase-backed auth provider. Token validation
// is local (shared HMAC secret); the client is only needed for admin metadata
// writes.
func NewSupabaseAuth(cfg *config.Configuration, log *logger.Logger) (Provider, error) {
	client := supa.CreateClient(cfg.Auth.Supabase.BaseURL, cfg.Auth.Supabase.ServiceKey)
	if client == nil {
		return nil, ierr.NewError("failed to create supabase client").
			WithHint("Check the Supabase base URL and service key").
			Mark(ierr.ErrSystem)
	}

	return &supabaseAuth{
		authConfig: cfg.Auth,
		client:     client,
		logger:     log,
	}, nil
}

func (s *supabaseAuth) ValidateToken(_ context.Context, token string) (*Claims, error) {
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ierr.NewError("unexpected signing method").
				WithReportableDetails(map[string]interface{}{
					"signing_method": token.Method.Alg(),
				}).
				Mark(ierr.ErrPermissionDenied)
		}
		return []byte(s.authConfig.Secret), nil
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Token parse error").
			Mark(ierr.ErrPermissionDenied)
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return nil, ierr.NewError("invalid token claims").
			WithHint("Invalid token claims").
			Mark(ierr.ErrPermissionDenied)
	}

	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return nil, ierr.NewError("token missing user ID").
			WithHint("Token missing user ID").
			Mark(ierr.ErrPermissionDenied)
	}

	email, _ := claims["email"].(string)

	result := &Claims{
		UserID: userID,
		Email:  email,
	}
	if appMetadata, ok := claims["app_metadata"].(map[string]interface{}); ok {
		if orgID, ok := appMetadata["organization_id"].(string); ok {
			result.OrganizationID = orgID
		}
		if role, ok := appMetadata["role"].(string); ok {
			result.Role = types.UserRole(role)
		}
	}

	return result, nil
}

func (s *supabaseAuth) AssignUserToOrganization(ctx context.Context, userID, organizationID string, role types.UserRole) error {
	params := supa.AdminUserParams{
		AppMetadata: map[string]interface{}{
			"organization_id": organizationID,
			"role":            string(role),
		},
	}

	if _, err := s.client.Admin.UpdateUser(ctx, userID, params); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to assign organization to user").
			WithReportableDetails(map[string]interface{}{
				"user_id":         userID,
				"organization_id": organizationID,
			}).
			Mark(ierr.ErrSystem)
	}

	s.logger.Debugw("assigned organization to user",
		"user_id", userID,
		"organization_id", organizationID,
		"role", role)
	return nil
}
