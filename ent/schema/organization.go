package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	baseMixin "github.com/courseforge/courseforge/ent/schema/mixin"
	"github.com/courseforge/courseforge/internal/types"
)

// Organization holds the schema definition for the Organization entity.
type Organization struct {
	ent.Schema
}

func (Organization) Mixin() []ent.Mixin {
	return []ent.Mixin{
		baseMixin.BaseMixin{},
	}
}

func (Organization) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			SchemaType(map[string]string{
				"postgres": "varchar(50)",
			}).
			Unique().
			Immutable(),
		field.String("name").
			NotEmpty(),
		field.String("slug").
			NotEmpty().
			Unique(),
		field.String("owner_id").
			SchemaType(map[string]string{
				"postgres": "varchar(50)",
			}).
			NotEmpty(),
		field.String("subscription_status").
			SchemaType(map[string]string{
				"postgres": "varchar(20)",
			}).
			Default(string(types.SubscriptionStatusTrial)).
			GoType(types.SubscriptionStatus("")),
		field.Time("trial_ends_at").
			Optional().
			Nillable(),
		field.String("primary_color").
			Optional(),
		field.String("secondary_color").
			Optional(),
		field.String("custom_domain").
			Optional().
			Nillable(),
	}
}

func (Organization) Indexes() []ent.Index {
	return []ent.Index{
		// The unique slug index is the arbiter of the provisioning
		// check-then-act race.
		index.Fields("slug").Unique(),
		index.Fields("subscription_status"),
	}
}
