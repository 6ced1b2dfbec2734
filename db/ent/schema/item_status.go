package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"

	"github.com/google/uuid"
)

// ItemStatus holds the latest acceptance figures of an item; at most one per item.
type ItemStatus struct{ ent.Schema }

func (ItemStatus) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "item_statuses"},
	}
}

func (ItemStatus) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).Default(uuid.New).Immutable(),
		field.UUID("item_id", uuid.UUID{}).Unique(),
		field.Int("remaining_qty").NonNegative(),
		field.Int("approved_qty").NonNegative().Default(0),
		field.Int("rejected_qty").NonNegative().Default(0),
		field.Time("updated_at").Default(time.Now).UpdateDefault(time.Now),
	}
}

func (ItemStatus) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("item", Item.Type).
			Ref("status").
			Field("item_id").
			Unique().
			Required(),
	}
}
