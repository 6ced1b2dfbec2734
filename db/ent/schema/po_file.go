package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"

	"github.com/google/uuid"
)

type POFile struct {
	ent.Schema
}

func (POFile) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "po_files"},
	}
}

func (POFile) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable().
			StorageKey("id"),
		field.String("source_path").NotEmpty(),
		field.Bytes("content_hash").NotEmpty().Unique().
			SchemaType(map[string]string{dialect.Postgres: "bytea"}),
		field.String("filename").NotEmpty(),
		field.String("file_ext").NotEmpty(),
		field.Int("file_size").NonNegative(),
		field.Time("uploaded_at").Default(time.Now),
	}
}

func (POFile) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("jobs", ExtractJob.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}
