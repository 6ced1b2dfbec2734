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

type PurchaseOrder struct{ ent.Schema }

func (PurchaseOrder) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "purchase_orders"},
	}
}

func (PurchaseOrder) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable().
			StorageKey("id"),
		field.String("po_number").NotEmpty().Unique().Immutable(),
		field.Time("order_date").
			SchemaType(map[string]string{dialect.Postgres: "timestamptz"}),
		field.Int("total_qty").NonNegative().Default(0),
		field.Float("total_amount").Default(0).
			SchemaType(map[string]string{dialect.Postgres: "numeric(12,2)"}),
		field.Time("created_at").Default(time.Now).Immutable(),
	}
}

func (PurchaseOrder) Edges() []ent.Edge {
	return []ent.Edge{
		// ONE order -> MANY items, removed with the order
		edge.To("items", Item.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}
