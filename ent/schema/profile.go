package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	baseMixin "github.com/courseforge/courseforge/ent/schema/mixin"
	"github.com/courseforge/courseforge/internal/types"
)

// Profile holds the schema definition for user profiles. Identity lives at
// the auth provider; this table carries the organization binding and role.
type Profile struct {
	ent.Schema
}

func (Profile) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "profiles"},
	}
}

func (Profile) Mixin() []ent.Mixin {
	return []ent.Mixin{
		baseMixin.BaseMixin{},
	}
}

func (Profile) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			SchemaType(map[string]string{
				"postgres": "varchar(50)",
			}).
			Unique().
			Immutable(),
		field.String("email").
			NotEmpty(),
		field.String("full_name").
			Optional(),
		field.String("organization_id").
			SchemaType(map[string]string{
				"postgres": "varchar(50)",
			}).
			Optional().
			Nillable(),
		field.String("role").
			SchemaType(map[string]string{
				"postgres": "varchar(20)",
			}).
			Default(string(types.UserRoleLearner)).
			GoType(types.UserRole("")),
	}
}

func (Profile) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("organization_id", "role"),
		index.Fields("email"),
	}
}
