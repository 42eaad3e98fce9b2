package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OrderRevision is a flattened snapshot of an order taken after a mutation.
// The history endpoint diffs consecutive snapshots to show what changed.
type OrderRevision struct {
	ID        uuid.UUID       `gorm:"primaryKey;type:uuid" json:"id"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index" json:"order_id"`
	Snapshot  json.RawMessage `gorm:"column:snapshot;type:jsonb;not null" json:"snapshot"`
	Comment   string          `gorm:"column:comment" json:"comment"`
	CreatedBy string          `gorm:"column:created_by" json:"created_by"`
	CreatedAt time.Time       `gorm:"column:created_at;default:now()" json:"created_at"`
}

func (OrderRevision) TableName() string {
	return "order_revisions"
}

// Fields decodes the stored snapshot into a field name to value mapping.
func (r *OrderRevision) Fields() (map[string]any, error) {
	var fields map[string]any
	if err := json.Unmarshal(r.Snapshot, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
