package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type RabbitMQBroker struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	url        string
	maxRetries int
	retryDelay time.Duration
	logger     *zap.SugaredLogger
	mu         sync.RWMutex

	send func(ctx context.Context, queueName string, msg amqp.Publishing) error
}

type Config struct {
	URL           string
	MaxRetries    int
	RetryDelay    time.Duration
	PrefetchCount int
}

func NewRabbitMQBroker(cfg Config, logger *zap.SugaredLogger) (*RabbitMQBroker, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// set QoS
	if err := channel.Qos(cfg.PrefetchCount, 0, false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}

	broker := &RabbitMQBroker{
		conn:       conn,
		channel:    channel,
		url:        cfg.URL,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     logger,
	}
	broker.send = broker.publishOnChannel

	queues := []string{
		QueueOrderStatus,
		QueueLoyaltyEarn,
		QueueMenuImport,
		QueueOrderStatusDLQ,
		QueueLoyaltyEarnDLQ,
		QueueMenuImportDLQ,
	}

	for _, queueName := range queues {
		if err := broker.declareQueue(queueName); err != nil {
			broker.Close()
			return nil, err
		}
	}

	return broker, nil
}

func (b *RabbitMQBroker) declareQueue(queueName string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, err := b.channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	return nil
}

func (b *RabbitMQBroker) Publish(ctx context.Context, queueName string, message []byte) error {
	err := b.send(ctx, queueName, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         message,
		Timestamp:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

func (b *RabbitMQBroker) publishOnChannel(ctx context.Context, queueName string, msg amqp.Publishing) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.channel.PublishWithContext(
		ctx,
		"",        // exchange
		queueName, // routing key
		false,     // mandatory
		false,     // immediate
		msg,
	)
}

func (b *RabbitMQBroker) Subscribe(ctx context.Context, queueName string, handler MessageHandler) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	msgs, err := b.channel.Consume(
		queueName, // queue
		"",        // consumer
		false,     // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				b.handleMessage(ctx, msg, handler, queueName)
			}
		}
	}()

	return nil
}

// handleMessage acks a delivery once it is handled or republished. Failed
// messages are republished with an incremented x-retry-count until
// maxRetries, then parked on the DLQ. If the republish itself fails the
// delivery is nacked back onto its queue.
func (b *RabbitMQBroker) handleMessage(ctx context.Context, msg amqp.Delivery, handler MessageHandler, queueName string) {
	err := handler(ctx, msg.Body)
	if err == nil {
		b.ack(msg, queueName)
		return
	}

	retryCount := retryCountOf(msg.Headers)
	target := queueName
	headers := amqp.Table{"x-retry-count": int32(retryCount + 1)}
	if retryCount < b.maxRetries {
		time.Sleep(backoff(b.retryDelay, retryCount))
	} else {
		target = DeadLetterQueue(queueName)
		headers = amqp.Table{
			"x-original-queue": queueName,
			"x-retry-count":    int32(retryCount),
			"x-error":          err.Error(),
		}
	}

	if perr := b.republish(ctx, target, msg, headers); perr != nil {
		b.logger.Errorw("failed to republish message, requeueing",
			"queue", queueName,
			"target", target,
			"retry_count", retryCount,
			"handler_error", err,
			"error", perr,
		)
		if nerr := msg.Nack(false, true); nerr != nil {
			b.logger.Errorw("failed to nack message", "queue", queueName, "error", nerr)
		}
		return
	}

	b.ack(msg, queueName)
}

func (b *RabbitMQBroker) ack(msg amqp.Delivery, queueName string) {
	if err := msg.Ack(false); err != nil {
		b.logger.Errorw("failed to ack message", "queue", queueName, "error", err)
	}
}

func (b *RabbitMQBroker) republish(ctx context.Context, queueName string, msg amqp.Delivery, headers amqp.Table) error {
	return b.send(ctx, queueName, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  msg.ContentType,
		Body:         msg.Body,
		Headers:      headers,
		Timestamp:    time.Now(),
	})
}

func retryCountOf(headers amqp.Table) int {
	if headers == nil {
		return 0
	}
	if count, ok := headers["x-retry-count"].(int32); ok {
		return int(count)
	}
	return 0
}

func (b *RabbitMQBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.channel != nil {
		b.channel.Close()
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}

// backoff doubles base for every retry already made.
func backoff(base time.Duration, retryCount int) time.Duration {
	return base << retryCount
}
