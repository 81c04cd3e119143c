package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingAcknowledger struct {
	mu       sync.Mutex
	acks     int
	nacks    int
	requeued bool
}

func (a *recordingAcknowledger) Ack(uint64, bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acks++
	return nil
}

func (a *recordingAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacks++
	a.requeued = requeue
	return nil
}

func (a *recordingAcknowledger) Reject(uint64, bool) error { return nil }

type sentMessage struct {
	queue string
	msg   amqp.Publishing
}

func testBroker(sendErr error) (*RabbitMQBroker, *[]sentMessage) {
	var sent []sentMessage
	b := &RabbitMQBroker{
		maxRetries: 2,
		retryDelay: time.Millisecond,
		logger:     zap.NewNop().Sugar(),
	}
	b.send = func(_ context.Context, queueName string, msg amqp.Publishing) error {
		if sendErr != nil {
			return sendErr
		}
		sent = append(sent, sentMessage{queue: queueName, msg: msg})
		return nil
	}
	return b, &sent
}

func failingHandler(context.Context, []byte) error {
	return errors.New("order not found")
}

func TestHandleMessageAcksHandled(t *testing.T) {
	b, sent := testBroker(nil)
	ack := &recordingAcknowledger{}

	b.handleMessage(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte(`{}`)},
		func(context.Context, []byte) error { return nil }, QueueOrderStatus)

	assert.Equal(t, 1, ack.acks)
	assert.Empty(t, *sent)
}

func TestHandleMessageRetriesThenDeadLetters(t *testing.T) {
	b, sent := testBroker(nil)

	ack := &recordingAcknowledger{}
	b.handleMessage(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte(`{}`)}, failingHandler, QueueOrderStatus)

	require.Len(t, *sent, 1)
	assert.Equal(t, QueueOrderStatus, (*sent)[0].queue)
	assert.Equal(t, int32(1), (*sent)[0].msg.Headers["x-retry-count"])
	assert.Equal(t, 1, ack.acks)

	ack = &recordingAcknowledger{}
	b.handleMessage(context.Background(), amqp.Delivery{
		Acknowledger: ack,
		Body:         []byte(`{}`),
		Headers:      amqp.Table{"x-retry-count": int32(2)},
	}, failingHandler, QueueOrderStatus)

	require.Len(t, *sent, 2)
	assert.Equal(t, QueueOrderStatusDLQ, (*sent)[1].queue)
	assert.Equal(t, "order not found", (*sent)[1].msg.Headers["x-error"])
	assert.Equal(t, 1, ack.acks)
}

func TestHandleMessageRequeuesWhenRepublishFails(t *testing.T) {
	b, _ := testBroker(errors.New("channel/connection is not open"))
	ack := &recordingAcknowledger{}

	b.handleMessage(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte(`{}`)}, failingHandler, QueueOrderStatus)

	assert.Zero(t, ack.acks, "a message that could not be republished is not acked")
	assert.Equal(t, 1, ack.nacks)
	assert.True(t, ack.requeued)
}

func TestPublishWrapsSendError(t *testing.T) {
	b, _ := testBroker(errors.New("channel/connection is not open"))

	err := b.Publish(context.Background(), QueueOrderStatus, []byte(`{}`))
	assert.ErrorContains(t, err, "failed to publish message")
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, 2*time.Second, backoff(2*time.Second, 0))
	assert.Equal(t, 4*time.Second, backoff(2*time.Second, 1))
	assert.Equal(t, 16*time.Second, backoff(2*time.Second, 3))
}

func TestDeadLetterQueue(t *testing.T) {
	assert.Equal(t, QueueOrderStatusDLQ, DeadLetterQueue(QueueOrderStatus))
	assert.Equal(t, QueueLoyaltyEarnDLQ, DeadLetterQueue(QueueLoyaltyEarn))
	assert.Equal(t, QueueMenuImportDLQ, DeadLetterQueue(QueueMenuImport))
}

func TestRetryCountOf(t *testing.T) {
	assert.Equal(t, 0, retryCountOf(nil))
	assert.Equal(t, 2, retryCountOf(amqp.Table{"x-retry-count": int32(2)}))
	assert.Equal(t, 0, retryCountOf(amqp.Table{"x-retry-count": "two"}))
}
