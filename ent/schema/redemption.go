package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	baseMixin "github.com/courseforge/courseforge/ent/schema/mixin"
)

// PromoCodeRedemption links a promo code to the organization and user that
// redeemed it.
type PromoCodeRedemption struct {
	ent.Schema
}

func (PromoCodeRedemption) Mixin() []ent.Mixin {
	return []ent.Mixin{
		baseMixin.BaseMixin{},
	}
}

func (PromoCodeRedemption) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			SchemaType(map[string]string{
				"postgres": "varchar(50)",
			}).
			Unique().
			Immutable(),
		field.String("promo_code_id").
			SchemaType(map[string]string{
				"postgres": "varchar(50)",
			}).
			NotEmpty().
			Immutable(),
		field.String("organization_id").
			SchemaType(map[string]string{
				"postgres": "varchar(50)",
			}).
			NotEmpty().
			Immutable(),
		field.String("user_id").
			SchemaType(map[string]string{
				"postgres": "varchar(50)",
			}).
			NotEmpty().
			Immutable(),
		field.Time("redeemed_at").
			Default(time.Now).
			Immutable(),
	}
}

func (PromoCodeRedemption) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("organization_id", "redeemed_at"),
		index.Fields("promo_code_id"),
	}
}
