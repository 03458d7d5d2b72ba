package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	baseMixin "github.com/courseforge/courseforge/ent/schema/mixin"
	"github.com/courseforge/courseforge/internal/types"
)

// PromoCode holds the schema definition for the PromoCode entity.
type PromoCode struct {
	ent.Schema
}

func (PromoCode) Mixin() []ent.Mixin {
	return []ent.Mixin{
		baseMixin.BaseMixin{},
	}
}

func (PromoCode) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			SchemaType(map[string]string{
				"postgres": "varchar(50)",
			}).
			Unique().
			Immutable(),
		// Stored upper-cased; lookups normalize before matching.
		field.String("code").
			NotEmpty().
			Unique(),
		field.String("type").
			SchemaType(map[string]string{
				"postgres": "varchar(20)",
			}).
			GoType(types.PromoCodeType("")),
		field.Int("discount_percent").
			Optional().
			Nillable(),
		field.Int64("discount_amount").
			Optional().
			Nillable(),
		field.Int("max_redemptions").
			Optional().
			Nillable(),
		field.Int("redemptions_count").
			Default(0),
		field.JSON("lifetime_plan_limits", &types.PlanLimits{}).
			Optional(),
		field.Time("valid_from").
			Default(time.Now),
		field.Time("valid_until").
			Optional().
			Nillable(),
		field.Bool("is_active").
			Default(true),
	}
}

func (PromoCode) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("code").Unique(),
	}
}
