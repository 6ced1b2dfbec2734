package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/google/uuid"
)

// DeliveryTracking is one delivery challan received against an item.
type DeliveryTracking struct{ ent.Schema }

func (DeliveryTracking) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "delivery_trackings"},
	}
}

func (DeliveryTracking) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).Default(uuid.New).Immutable(),
		field.UUID("item_id", uuid.UUID{}),
		field.String("challan_no").NotEmpty(),
		field.Time("delivery_date").
			SchemaType(map[string]string{dialect.Postgres: "date"}),
		field.Int("delivered_qty").NonNegative(),
		field.Int("rejected_qty").NonNegative().Default(0),
		field.Int("approved_qty").NonNegative().Default(0),
		field.Time("recorded_at").Default(time.Now).Immutable(),
	}
}

func (DeliveryTracking) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("item", Item.Type).
			Ref("deliveries").
			Field("item_id").
			Unique().
			Required(),
	}
}

func (DeliveryTracking) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("item_id", "delivery_date"),
	}
}
