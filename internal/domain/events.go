package domain

import "time"

type MenuImportMessage struct {
	TaskID        string `json:"task_id"`
	SpreadsheetID string `json:"spreadsheet_id"`
}

type OrderStatusEvent struct {
	EventType        string      `json:"event_type"`
	OrderID          string      `json:"order_id"`
	CustomerID       string      `json:"customer_id"`
	OldStatus        OrderStatus `json:"old_status"`
	NewStatus        OrderStatus `json:"new_status"`
	Reason           string      `json:"reason"`
	ChangedBy        string      `json:"changed_by"`
	DeliveryAssigned bool        `json:"delivery_assigned"`
	Timestamp        time.Time   `json:"timestamp"`
}

type LoyaltyEarnMessage struct {
	UserID  string  `json:"user_id"`
	OrderID string  `json:"order_id"`
	Amount  float64 `json:"amount"`
}

// Notification is what the dispatcher hands to push delivery.
type Notification struct {
	UserID    string      `json:"user_id"`
	OrderID   string      `json:"order_id"`
	Status    OrderStatus `json:"status"`
	Title     string      `json:"title"`
	Body      string      `json:"body"`
	CreatedAt time.Time   `json:"created_at"`
}

const (
	EventOrderPlaced         = "order.placed"
	EventOrderStatusChanged  = "order.status_changed"
	EventOrderDriverAssigned = "order.driver_assigned"
)
