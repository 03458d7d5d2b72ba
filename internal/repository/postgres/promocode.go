package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/courseforge/courseforge/internal/domain/promocode"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/logger"
	"github.com/courseforge/courseforge/internal/types"
)

type promoCodeRepository struct {
	db  *sql.DB
	log *logger.Logger
}

// NewPromoCodeRepository creates a postgres-backed promo code repository
func NewPromoCodeRepository(db *sql.DB, log *logger.Logger) promocode.Repository {
	return &promoCodeRepository{db: db, log: log}
}

const promoCodeColumns = `id, code, type, discount_percent, discount_amount,
	max_redemptions, redemptions_count, lifetime_plan_limits,
	valid_from, valid_until, is_active,
	status, created_at, updated_at, created_by, updated_by`

func (r *promoCodeRepository) Create(ctx context.Context, code *promocode.PromoCode) error {
	limits, err := marshalLimits(code.LifetimeLimits)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO promo_codes (`+promoCodeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		code.ID, code.Code, code.Type, code.DiscountPercent, code.DiscountAmount,
		code.MaxRedemptions, code.RedemptionsCount, limits,
		code.ValidFrom, code.ValidUntil, code.IsActive,
		code.Status, code.CreatedAt, code.UpdatedAt, code.CreatedBy, code.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create promo code").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *promoCodeRepository) Get(ctx context.Context, id string) (*promocode.PromoCode, error) {
	return r.getOne(ctx, `id = $1`, id)
}

func (r *promoCodeRepository) GetByCode(ctx context.Context, code string) (*promocode.PromoCode, error) {
	return r.getOne(ctx, `code = $1`, code)
}

func (r *promoCodeRepository) getOne(ctx context.Context, where string, arg interface{}) (*promocode.PromoCode, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+promoCodeColumns+`
		FROM promo_codes
		WHERE `+where+` AND status != $2`,
		arg, types.StatusDeleted,
	)
	code, err := scanPromoCode(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("promo code not found").
				WithHint("Promo code not found").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get promo code").
			Mark(ierr.ErrDatabase)
	}
	return code, nil
}

func (r *promoCodeRepository) Update(ctx context.Context, code *promocode.PromoCode) error {
	limits, err := marshalLimits(code.LifetimeLimits)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE promo_codes
		SET type = $2, discount_percent = $3, discount_amount = $4,
			max_redemptions = $5, lifetime_plan_limits = $6,
			valid_from = $7, valid_until = $8, is_active = $9,
			updated_at = $10, updated_by = $11
		WHERE id = $1 AND status != $12`,
		code.ID, code.Type, code.DiscountPercent, code.DiscountAmount,
		code.MaxRedemptions, limits,
		code.ValidFrom, code.ValidUntil, code.IsActive,
		code.UpdatedAt, code.UpdatedBy, types.StatusDeleted,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update promo code").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("promo code not found").
			WithHint("Promo code not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

// IncrementRedemptions increments the counter server-side so concurrent
// redemptions cannot lose updates.
func (r *promoCodeRepository) IncrementRedemptions(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE promo_codes
		SET redemptions_count = redemptions_count + 1, updated_at = NOW()
		WHERE id = $1 AND status != $2`,
		id, types.StatusDeleted,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to increment promo code redemptions").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("promo code not found").
			WithHint("Promo code not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *promoCodeRepository) CreateRedemption(ctx context.Context, red *promocode.Redemption) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO promo_code_redemptions
			(id, promo_code_id, organization_id, user_id, redeemed_at,
			 status, created_at, updated_at, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		red.ID, red.PromoCodeID, red.OrganizationID, red.UserID, red.RedeemedAt,
		red.Status, red.CreatedAt, red.UpdatedAt, red.CreatedBy, red.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to record promo code redemption").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *promoCodeRepository) ListRedemptionsByOrganization(ctx context.Context, organizationID string) ([]*promocode.Redemption, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, promo_code_id, organization_id, user_id, redeemed_at,
			status, created_at, updated_at, created_by, updated_by
		FROM promo_code_redemptions
		WHERE organization_id = $1 AND status != $2
		ORDER BY redeemed_at DESC`,
		organizationID, types.StatusDeleted,
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list promo code redemptions").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var redemptions []*promocode.Redemption
	for rows.Next() {
		var red promocode.Redemption
		if err := rows.Scan(
			&red.ID, &red.PromoCodeID, &red.OrganizationID, &red.UserID, &red.RedeemedAt,
			&red.Status, &red.CreatedAt, &red.UpdatedAt, &red.CreatedBy, &red.UpdatedBy,
		); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan promo code redemption").
				Mark(ierr.ErrDatabase)
		}
		redemptions = append(redemptions, &red)
	}
	return redemptions, rows.Err()
}

func (r *promoCodeRepository) GetLifetimeCodeForOrganization(ctx context.Context, organizationID string) (*promocode.PromoCode, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+qualify(promoCodeColumns, "pc")+`
		FROM promo_codes pc
		JOIN promo_code_redemptions red ON red.promo_code_id = pc.id
		WHERE red.organization_id = $1 AND pc.type = $2 AND pc.status != $3
		ORDER BY red.redeemed_at DESC
		LIMIT 1`,
		organizationID, types.PromoCodeTypeLifetimeDeal, types.StatusDeleted,
	)
	code, err := scanPromoCode(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("no lifetime promo redemption found").
				WithHint("Organization has not redeemed a lifetime-deal promo code").
				WithReportableDetails(map[string]interface{}{
					"organization_id": organizationID,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get lifetime promo code").
			Mark(ierr.ErrDatabase)
	}
	return code, nil
}

func (r *promoCodeRepository) List(ctx context.Context, filter *promocode.Filter) ([]*promocode.PromoCode, error) {
	query := `SELECT ` + promoCodeColumns + ` FROM promo_codes WHERE status != $1`
	args := []interface{}{types.StatusDeleted}

	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		query += ` AND is_active = $` + itoa(len(args))
	}

	query += ` ORDER BY created_at DESC`
	if limit := filter.GetLimit(); limit > 0 {
		query += ` LIMIT ` + itoa(limit) + ` OFFSET ` + itoa(filter.GetOffset())
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list promo codes").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var codes []*promocode.PromoCode
	for rows.Next() {
		code, err := scanPromoCode(rows)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan promo code").
				Mark(ierr.ErrDatabase)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

func scanPromoCode(row rowScanner) (*promocode.PromoCode, error) {
	var code promocode.PromoCode
	var limits []byte
	err := row.Scan(
		&code.ID, &code.Code, &code.Type, &code.DiscountPercent, &code.DiscountAmount,
		&code.MaxRedemptions, &code.RedemptionsCount, &limits,
		&code.ValidFrom, &code.ValidUntil, &code.IsActive,
		&code.Status, &code.CreatedAt, &code.UpdatedAt, &code.CreatedBy, &code.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if len(limits) > 0 {
		code.LifetimeLimits = &types.PlanLimits{}
		if err := json.Unmarshal(limits, code.LifetimeLimits); err != nil {
			return nil, err
		}
	}
	return &code, nil
}

func marshalLimits(limits *types.PlanLimits) ([]byte, error) {
	if limits == nil {
		return nil, nil
	}
	data, err := json.Marshal(limits)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to encode lifetime plan limits").
			Mark(ierr.ErrValidation)
	}
	return data, nil
}
