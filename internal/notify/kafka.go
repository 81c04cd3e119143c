package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Beka01247/brewline/internal/domain"
	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// KafkaDispatcher publishes notifications keyed by user id so one user's
// notifications stay ordered within a partition.
type KafkaDispatcher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.SugaredLogger
}

func NewKafkaDispatcher(cfg KafkaConfig, logger *zap.SugaredLogger) (*KafkaDispatcher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Net.DialTimeout = 10 * time.Second

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return NewKafkaDispatcherWithProducer(producer, cfg.Topic, logger), nil
}

func NewKafkaDispatcherWithProducer(producer sarama.SyncProducer, topic string, logger *zap.SugaredLogger) *KafkaDispatcher {
	return &KafkaDispatcher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

func (d *KafkaDispatcher) Dispatch(_ context.Context, n domain.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	partition, offset, err := d.producer.SendMessage(&sarama.ProducerMessage{
		Topic: d.topic,
		Key:   sarama.StringEncoder(n.UserID),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	d.logger.Debugw("notification published", "order_id", n.OrderID, "partition", partition, "offset", offset)

	return nil
}

func (d *KafkaDispatcher) Close() error {
	return d.producer.Close()
}
