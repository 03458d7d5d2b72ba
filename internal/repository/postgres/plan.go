package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/courseforge/courseforge/internal/domain/plan"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/logger"
	"github.com/courseforge/courseforge/internal/types"
	"github.com/lib/pq"
)

type planRepository struct {
	db  *sql.DB
	log *logger.Logger
}

// NewPlanRepository creates a postgres-backed plan repository
func NewPlanRepository(db *sql.DB, log *logger.Logger) plan.Repository {
	return &planRepository{db: db, log: log}
}

const planColumns = `id, slug, name, description, price_monthly, price_yearly,
	max_courses, max_instructors, max_learners, features, is_active,
	status, created_at, updated_at, created_by, updated_by`

func (r *planRepository) Create(ctx context.Context, p *plan.Plan) error {
	features, err := json.Marshal(p.Features)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to encode plan features").
			Mark(ierr.ErrValidation)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO subscription_plans (`+planColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		p.ID, p.Slug, p.Name, p.Description, p.PriceMonthly, p.PriceYearly,
		p.Limits.MaxCourses, p.Limits.MaxInstructors, p.Limits.MaxLearners, features, p.IsActive,
		p.Status, p.CreatedAt, p.UpdatedAt, p.CreatedBy, p.UpdatedBy,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return ierr.WithError(err).
				WithHint("A plan with this slug already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create plan").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *planRepository) Get(ctx context.Context, id string) (*plan.Plan, error) {
	return r.getOne(ctx, `id = $1`, id)
}

func (r *planRepository) GetBySlug(ctx context.Context, slug string) (*plan.Plan, error) {
	return r.getOne(ctx, `slug = $1`, slug)
}

func (r *planRepository) getOne(ctx context.Context, where string, arg interface{}) (*plan.Plan, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+planColumns+`
		FROM subscription_plans
		WHERE `+where+` AND status != $2`,
		arg, types.StatusDeleted,
	)
	p, err := scanPlan(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("plan not found").
				WithHint("Plan not found").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get plan").
			Mark(ierr.ErrDatabase)
	}
	return p, nil
}

func (r *planRepository) Update(ctx context.Context, p *plan.Plan) error {
	features, err := json.Marshal(p.Features)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to encode plan features").
			Mark(ierr.ErrValidation)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE subscription_plans
		SET name = $2, description = $3, price_monthly = $4, price_yearly = $5,
			max_courses = $6, max_instructors = $7, max_learners = $8,
			features = $9, is_active = $10, updated_at = $11, updated_by = $12
		WHERE id = $1 AND status != $13`,
		p.ID, p.Name, p.Description, p.PriceMonthly, p.PriceYearly,
		p.Limits.MaxCourses, p.Limits.MaxInstructors, p.Limits.MaxLearners,
		features, p.IsActive, p.UpdatedAt, p.UpdatedBy, types.StatusDeleted,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update plan").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("plan not found").
			WithHint("Plan not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *planRepository) List(ctx context.Context, filter *plan.Filter) ([]*plan.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM subscription_plans WHERE status != $1`
	args := []interface{}{types.StatusDeleted}

	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		query += ` AND is_active = $` + itoa(len(args))
	}
	if len(filter.PlanIDs) > 0 {
		args = append(args, pq.Array(filter.PlanIDs))
		query += ` AND id = ANY($` + itoa(len(args)) + `)`
	}

	query += ` ORDER BY price_monthly ASC`
	if limit := filter.GetLimit(); limit > 0 {
		query += ` LIMIT ` + itoa(limit) + ` OFFSET ` + itoa(filter.GetOffset())
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list plans").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var plans []*plan.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan plan").
				Mark(ierr.ErrDatabase)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (r *planRepository) Count(ctx context.Context, filter *plan.Filter) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM subscription_plans WHERE status != $1`,
		types.StatusDeleted,
	).Scan(&count)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count plans").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func scanPlan(row rowScanner) (*plan.Plan, error) {
	var p plan.Plan
	var features []byte
	err := row.Scan(
		&p.ID, &p.Slug, &p.Name, &p.Description, &p.PriceMonthly, &p.PriceYearly,
		&p.Limits.MaxCourses, &p.Limits.MaxInstructors, &p.Limits.MaxLearners,
		&features, &p.IsActive,
		&p.Status, &p.CreatedAt, &p.UpdatedAt, &p.CreatedBy, &p.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if len(features) > 0 {
		if err := json.Unmarshal(features, &p.Features); err != nil {
			return nil, err
		}
	}
	return &p, nil
}
