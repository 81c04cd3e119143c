package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatusAudit struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID   string             `bson:"order_id" json:"order_id"`
	EventType string             `bson:"event_type" json:"event_type"`
	OldStatus OrderStatus        `bson:"old_status" json:"old_status"`
	NewStatus OrderStatus        `bson:"new_status" json:"new_status"`
	Reason    string             `bson:"reason" json:"reason"`
	ChangedBy string             `bson:"changed_by" json:"changed_by"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}
