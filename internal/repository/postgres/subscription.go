package postgres

import (
	"context"
	"database/sql"

	"github.com/courseforge/courseforge/internal/domain/subscription"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/logger"
	"github.com/courseforge/courseforge/internal/types"
	"github.com/lib/pq"
)

type subscriptionRepository struct {
	db  *sql.DB
	log *logger.Logger
}

// NewSubscriptionRepository creates a postgres-backed subscription repository
func NewSubscriptionRepository(db *sql.DB, log *logger.Logger) subscription.Repository {
	return &subscriptionRepository{db: db, log: log}
}

const subscriptionColumns = `id, organization_id, plan_id,
	processor_subscription_id, processor_customer_id, processor_status,
	billing_cycle, current_period_start, current_period_end,
	cancel_at_period_end, canceled_at,
	status, created_at, updated_at, created_by, updated_by`

func (r *subscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscriptions (`+subscriptionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		sub.ID, sub.OrganizationID, sub.PlanID,
		sub.ProcessorSubscriptionID, sub.ProcessorCustomerID, sub.ProcessorStatus,
		sub.BillingCycle, sub.CurrentPeriodStart, sub.CurrentPeriodEnd,
		sub.CancelAtPeriodEnd, sub.CanceledAt,
		sub.Status, sub.CreatedAt, sub.UpdatedAt, sub.CreatedBy, sub.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create subscription").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *subscriptionRepository) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	return r.getOne(ctx, `id = $1`, id)
}

func (r *subscriptionRepository) GetLatestByOrganization(ctx context.Context, organizationID string) (*subscription.Subscription, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE organization_id = $1 AND status != $2
		ORDER BY created_at DESC
		LIMIT 1`,
		organizationID, types.StatusDeleted,
	)
	sub, err := scanSubscription(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("subscription not found").
				WithHint("Organization has no subscription").
				WithReportableDetails(map[string]interface{}{
					"organization_id": organizationID,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get latest subscription").
			Mark(ierr.ErrDatabase)
	}
	return sub, nil
}

func (r *subscriptionRepository) GetByProcessorSubscriptionID(ctx context.Context, processorSubscriptionID string) (*subscription.Subscription, error) {
	return r.getOne(ctx, `processor_subscription_id = $1`, processorSubscriptionID)
}

func (r *subscriptionRepository) getOne(ctx context.Context, where string, arg interface{}) (*subscription.Subscription, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE `+where+` AND status != $2`,
		arg, types.StatusDeleted,
	)
	sub, err := scanSubscription(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("subscription not found").
				WithHint("Subscription not found").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get subscription").
			Mark(ierr.ErrDatabase)
	}
	return sub, nil
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET processor_status = $2, current_period_start = $3, current_period_end = $4,
			cancel_at_period_end = $5, canceled_at = $6, updated_at = $7, updated_by = $8
		WHERE id = $1 AND status != $9`,
		sub.ID, sub.ProcessorStatus, sub.CurrentPeriodStart, sub.CurrentPeriodEnd,
		sub.CancelAtPeriodEnd, sub.CanceledAt, sub.UpdatedAt, sub.UpdatedBy,
		types.StatusDeleted,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update subscription").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("subscription not found").
			WithHint("Subscription not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *subscriptionRepository) List(ctx context.Context, filter *subscription.Filter) ([]*subscription.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE status != $1`
	args := []interface{}{types.StatusDeleted}

	if len(filter.OrganizationIDs) > 0 {
		args = append(args, pq.Array(filter.OrganizationIDs))
		query += ` AND organization_id = ANY($` + itoa(len(args)) + `)`
	}
	if len(filter.PlanIDs) > 0 {
		args = append(args, pq.Array(filter.PlanIDs))
		query += ` AND plan_id = ANY($` + itoa(len(args)) + `)`
	}

	query += ` ORDER BY created_at DESC`
	if limit := filter.GetLimit(); limit > 0 {
		query += ` LIMIT ` + itoa(limit) + ` OFFSET ` + itoa(filter.GetOffset())
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list subscriptions").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var subs []*subscription.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan subscription").
				Mark(ierr.ErrDatabase)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func scanSubscription(row rowScanner) (*subscription.Subscription, error) {
	var sub subscription.Subscription
	err := row.Scan(
		&sub.ID, &sub.OrganizationID, &sub.PlanID,
		&sub.ProcessorSubscriptionID, &sub.ProcessorCustomerID, &sub.ProcessorStatus,
		&sub.BillingCycle, &sub.CurrentPeriodStart, &sub.CurrentPeriodEnd,
		&sub.CancelAtPeriodEnd, &sub.CanceledAt,
		&sub.Status, &sub.CreatedAt, &sub.UpdatedAt, &sub.CreatedBy, &sub.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
