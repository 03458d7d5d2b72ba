package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	baseMixin "github.com/courseforge/courseforge/ent/schema/mixin"
)

// SubscriptionPlan holds the schema definition for the plan catalog.
type SubscriptionPlan struct {
	ent.Schema
}

func (SubscriptionPlan) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "subscription_plans"},
	}
}

func (SubscriptionPlan) Mixin() []ent.Mixin {
	return []ent.Mixin{
		baseMixin.BaseMixin{},
	}
}

func (SubscriptionPlan) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			SchemaType(map[string]string{
				"postgres": "varchar(50)",
			}).
			Unique().
			Immutable(),
		field.String("slug").
			NotEmpty().
			Unique(),
		field.String("name").
			NotEmpty(),
		field.String("description").
			Optional(),
		field.Int64("price_monthly").
			Default(0),
		field.Int64("price_yearly").
			Default(0),
		// Null means unlimited.
		field.Int("max_courses").
			Optional().
			Nillable(),
		field.Int("max_instructors").
			Optional().
			Nillable(),
		field.Int("max_learners").
			Optional().
			Nillable(),
		field.JSON("features", map[string]string{}).
			Optional(),
		field.Bool("is_active").
			Default(true),
	}
}

func (SubscriptionPlan) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("slug").Unique(),
		index.Fields("is_active"),
	}
}
