package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/google/uuid"
)

type Item struct{ ent.Schema }

func (Item) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "items"},
	}
}

func (Item) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable().
			StorageKey("id"),
		field.UUID("purchase_order_id", uuid.UUID{}),
		// table row order within the order
		field.Int("position").NonNegative(),
		field.String("cart_part_no").NotEmpty(),
		field.String("country_of_origin").Optional().Nillable(),
		field.String("a_unit").Optional().Nillable(),
		field.Int("qty").Optional().Nillable(),
		field.Float("rate_include_gst").Optional().Nillable().
			SchemaType(map[string]string{dialect.Postgres: "numeric(12,2)"}),
		field.Float("total_cost").Optional().Nillable().
			SchemaType(map[string]string{dialect.Postgres: "numeric(12,2)"}),
		field.String("nomenclature").Default(""),
	}
}

func (Item) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("purchase_order", PurchaseOrder.Type).
			Ref("items").
			Field("purchase_order_id").
			Unique().
			Required(),
		edge.To("deliveries", DeliveryTracking.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("status", ItemStatus.Type).
			Unique().
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

func (Item) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("purchase_order_id", "position"),
		index.Fields("cart_part_no"),
	}
}
