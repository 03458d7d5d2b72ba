package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	baseMixin "github.com/courseforge/courseforge/ent/schema/mixin"
)

// Course holds the schema definition for the Course entity.
type Course struct {
	ent.Schema
}

func (Course) Mixin() []ent.Mixin {
	return []ent.Mixin{
		baseMixin.BaseMixin{},
	}
}

func (Course) Fields() []ent.Field {
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
		field.String("title").
			NotEmpty(),
		field.String("description").
			Optional(),
		field.String("cover_media_url").
			Optional(),
		field.Time("published_at").
			Optional().
			Nillable(),
	}
}

func (Course) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("organization_id"),
	}
}
