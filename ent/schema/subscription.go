package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	baseMixin "github.com/courseforge/courseforge/ent/schema/mixin"
	"github.com/courseforge/courseforge/internal/types"
)

// Subscription holds the schema definition for the Subscription entity.
type Subscription struct {
	ent.Schema
}

func (Subscription) Mixin() []ent.Mixin {
	return []ent.Mixin{
		baseMixin.BaseMixin{},
	}
}

func (Subscription) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			SchemaType(map[string]string{
				"postgres": "varchar(50)",
			}).
			Unique().
			Immutable(),
		field.String("organization_id").
			SchemaType(map[string]string{
				"postgres": "varchar(50)",
			}).
			NotEmpty().
			Immutable(),
		field.String("plan_id").
			SchemaType(map[string]string{
				"postgres": "varchar(50)",
			}).
			NotEmpty().
			Immutable(),
		field.String("processor_subscription_id").
			NotEmpty().
			Unique(),
		field.String("processor_customer_id").
			Optional(),
		field.String("processor_status").
			Default("active"),
		field.String("billing_cycle").
			SchemaType(map[string]string{
				"postgres": "varchar(10)",
			}).
			Default(string(types.BillingCycleMonthly)).
			GoType(types.BillingCycle("")),
		field.Time("current_period_start").
			Default(time.Now),
		field.Time("current_period_end").
			Default(time.Now),
		field.Bool("cancel_at_period_end").
			Default(false),
		field.Time("canceled_at").
			Optional().
			Nillable(),
	}
}

func (Subscription) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("organization_id", "created_at"),
		index.Fields("processor_subscription_id").Unique(),
	}
}
