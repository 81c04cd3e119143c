// Package notify turns order status changes into customer notifications and
// hands them to a delivery channel.
package notify

import (
	"context"
	"time"

	"github.com/Beka01247/brewline/internal/domain"
	"github.com/Beka01247/brewline/internal/order"
	"go.uber.org/zap"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, n domain.Notification) error
	Close() error
}

// Build selects the message for key. ok is false for keys without a message.
func Build(userID, orderID string, status domain.OrderStatus, key string, now time.Time) (domain.Notification, bool) {
	msg, ok := order.MessageFor(key)
	if !ok {
		return domain.Notification{}, false
	}

	return domain.Notification{
		UserID:    userID,
		OrderID:   orderID,
		Status:    status,
		Title:     msg.Title,
		Body:      msg.Body,
		CreatedAt: now,
	}, true
}

// LogDispatcher writes notifications to the log. It is used when no broker
// is configured.
type LogDispatcher struct {
	logger *zap.SugaredLogger
}

func NewLogDispatcher(logger *zap.SugaredLogger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Dispatch(_ context.Context, n domain.Notification) error {
	d.logger.Infow("notification", "user_id", n.UserID, "order_id", n.OrderID, "title", n.Title, "body", n.Body)
	return nil
}

func (d *LogDispatcher) Close() error {
	return nil
}
