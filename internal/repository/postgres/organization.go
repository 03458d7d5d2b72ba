package postgres

import (
	"context"
	"database/sql"

	"github.com/courseforge/courseforge/internal/domain/organization"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/logger"
	"github.com/courseforge/courseforge/internal/types"
	"github.com/lib/pq"
	"github.com/samber/lo"
)

type organizationRepository struct {
	db  *sql.DB
	log *logger.Logger
}

// NewOrganizationRepository creates a postgres-backed organization repository
func NewOrganizationRepository(db *sql.DB, log *logger.Logger) organization.Repository {
	return &organizationRepository{db: db, log: log}
}

const organizationColumns = `id, name, slug, owner_id, subscription_status, trial_ends_at,
	primary_color, secondary_color, custom_domain,
	status, created_at, updated_at, created_by, updated_by`

func (r *organizationRepository) Create(ctx context.Context, org *organization.Organization) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO organizations (`+organizationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		org.ID, org.Name, org.Slug, org.OwnerID, org.SubscriptionStatus, org.TrialEndsAt,
		org.PrimaryColor, org.SecondaryColor, org.CustomDomain,
		org.Status, org.CreatedAt, org.UpdatedAt, org.CreatedBy, org.UpdatedBy,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return ierr.WithError(err).
				WithHint("This organization name is already taken").
				WithReportableDetails(map[string]interface{}{
					"slug": org.Slug,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create organization").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *organizationRepository) Get(ctx context.Context, id string) (*organization.Organization, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+organizationColumns+`
		FROM organizations
		WHERE id = $1 AND status != $2`,
		id, types.StatusDeleted,
	)
	org, err := scanOrganization(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("organization not found").
				WithHint("Organization not found").
				WithReportableDetails(map[string]interface{}{
					"id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get organization").
			Mark(ierr.ErrDatabase)
	}
	return org, nil
}

func (r *organizationRepository) GetBySlug(ctx context.Context, slug string) (*organization.Organization, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+organizationColumns+`
		FROM organizations
		WHERE slug = $1 AND status != $2`,
		slug, types.StatusDeleted,
	)
	org, err := scanOrganization(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("organization not found").
				WithHint("Organization not found").
				WithReportableDetails(map[string]interface{}{
					"slug": slug,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get organization by slug").
			Mark(ierr.ErrDatabase)
	}
	return org, nil
}

func (r *organizationRepository) Update(ctx context.Context, org *organization.Organization) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE organizations
		SET name = $2, subscription_status = $3, trial_ends_at = $4,
			primary_color = $5, secondary_color = $6, custom_domain = $7,
			updated_at = $8, updated_by = $9
		WHERE id = $1 AND status != $10`,
		org.ID, org.Name, org.SubscriptionStatus, org.TrialEndsAt,
		org.PrimaryColor, org.SecondaryColor, org.CustomDomain,
		org.UpdatedAt, org.UpdatedBy, types.StatusDeleted,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update organization").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("organization not found").
			WithHint("Organization not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *organizationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE organizations SET status = $2 WHERE id = $1`,
		id, types.StatusDeleted,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete organization").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *organizationRepository) List(ctx context.Context, filter *organization.Filter) ([]*organization.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE status != $1`
	args := []interface{}{types.StatusDeleted}

	if len(filter.OrganizationIDs) > 0 {
		args = append(args, pq.Array(filter.OrganizationIDs))
		query += ` AND id = ANY($2)`
	}

	query += ` ORDER BY created_at DESC`
	if limit := filter.GetLimit(); limit > 0 {
		query += ` LIMIT ` + itoa(limit) + ` OFFSET ` + itoa(filter.GetOffset())
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list organizations").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var orgs []*organization.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan organization").
				Mark(ierr.ErrDatabase)
		}
		if len(filter.SubscriptionStatuses) > 0 &&
			!lo.Contains(filter.SubscriptionStatuses, org.SubscriptionStatus) {
			continue
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

func (r *organizationRepository) Count(ctx context.Context, filter *organization.Filter) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM organizations WHERE status != $1`,
		types.StatusDeleted,
	).Scan(&count)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count organizations").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrganization(row rowScanner) (*organization.Organization, error) {
	var org organization.Organization
	err := row.Scan(
		&org.ID, &org.Name, &org.Slug, &org.OwnerID, &org.SubscriptionStatus, &org.TrialEndsAt,
		&org.PrimaryColor, &org.SecondaryColor, &org.CustomDomain,
		&org.Status, &org.CreatedAt, &org.UpdatedAt, &org.CreatedBy, &org.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &org, nil
}
