package queue

import (
	"context"
)

type Broker interface {
	Publish(ctx context.Context, queueName string, message []byte) error
	Subscribe(ctx context.Context, queueName string, handler MessageHandler) error
	Close() error
}

type MessageHandler func(ctx context.Context, message []byte) error

const (
	QueueOrderStatus    = "order-status"
	QueueLoyaltyEarn    = "loyalty-earn"
	QueueMenuImport     = "menu-import"
	QueueOrderStatusDLQ = "order-status-dlq"
	QueueLoyaltyEarnDLQ = "loyalty-earn-dlq"
	QueueMenuImportDLQ  = "menu-import-dlq"
)

// DeadLetterQueue returns the queue that exhausted messages of queueName end up in.
func DeadLetterQueue(queueName string) string {
	return queueName + "-dlq"
}
