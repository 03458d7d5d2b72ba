package postgres

import (
	"context"
	"database/sql"

	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/domain/user"
	"github.com/courseforge/courseforge/internal/logger"
	"github.com/courseforge/courseforge/internal/types"
)

type userRepository struct {
	db  *sql.DB
	log *logger.Logger
}

// NewUserRepository creates a postgres-backed user profile repository
func NewUserRepository(db *sql.DB, log *logger.Logger) user.Repository {
	return &userRepository{db: db, log: log}
}

const userColumns = `id, email, full_name, organization_id, role,
	status, created_at, updated_at, created_by, updated_by`

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, u.Email, u.FullName, nullableString(u.OrganizationID), u.Role,
		u.Status, u.CreatedAt, u.UpdatedAt, u.CreatedBy, u.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create user profile").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id string) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM profiles
		WHERE id = $1 AND status != $2`,
		id, types.StatusDeleted,
	)
	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("user profile not found").
				WithHint("User profile not found").
				WithReportableDetails(map[string]interface{}{
					"id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get user profile").
			Mark(ierr.ErrDatabase)
	}
	return u, nil
}

func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET email = $2, full_name = $3, organization_id = $4, role = $5,
			updated_at = $6, updated_by = $7
		WHERE id = $1 AND status != $8`,
		u.ID, u.Email, u.FullName, nullableString(u.OrganizationID), u.Role,
		u.UpdatedAt, u.UpdatedBy, types.StatusDeleted,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update user profile").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("user profile not found").
			WithHint("User profile not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *userRepository) CountByOrganizationAndRole(ctx context.Context, organizationID string, role types.UserRole) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM profiles
		WHERE organization_id = $1 AND role = $2 AND status != $3`,
		organizationID, role, types.StatusDeleted,
	).Scan(&count)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count user profiles").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *userRepository) ListByOrganization(ctx context.Context, organizationID string, filter *types.QueryFilter) ([]*user.User, error) {
	query := `SELECT ` + userColumns + `
		FROM profiles
		WHERE organization_id = $1 AND status != $2
		ORDER BY created_at DESC`
	if limit := filter.GetLimit(); limit > 0 {
		query += ` LIMIT ` + itoa(limit) + ` OFFSET ` + itoa(filter.GetOffset())
	}

	rows, err := r.db.QueryContext(ctx, query, organizationID, types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list user profiles").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan user profile").
				Mark(ierr.ErrDatabase)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanUser(row rowScanner) (*user.User, error) {
	var u user.User
	var orgID sql.NullString
	err := row.Scan(
		&u.ID, &u.Email, &u.FullName, &orgID, &u.Role,
		&u.Status, &u.CreatedAt, &u.UpdatedAt, &u.CreatedBy, &u.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	u.OrganizationID = orgID.String
	return &u, nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
