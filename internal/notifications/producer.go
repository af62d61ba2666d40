package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"dhukuti/internal/activity"
	"dhukuti/internal/shared/config"
	"dhukuti/pkg/logger"
	"dhukuti/pkg/metrics"
)

const (
	headerMessageID = "message_id"
	headerType      = "activity_type"
	headerVersion   = "version"
	headerProducer  = "producer"
)

// KafkaPublisher publishes activity messages to the activity topic, keyed by group.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewProducerConfig returns the sarama settings used for the activity topic.
func NewProducerConfig(cfg config.KafkaConfig) *sarama.Config {
	saramaConfig := sarama.NewConfig()
	saramaConfig.ClientID = cfg.ClientID
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = cfg.MaxRetries
	saramaConfig.Producer.Timeout = 10 * time.Second
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1

	// Same key, same partition: a group's feed stays ordered.
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner
	return saramaConfig
}

func NewKafkaPublisher(cfg config.KafkaConfig) (*KafkaPublisher, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, NewProducerConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return NewKafkaPublisherWithProducer(producer, cfg.ActivityTopic), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer.
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, log: logger.GetDefault()}
}

func (p *KafkaPublisher) Publish(ctx context.Context, msg activity.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal activity: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(msg.PartitionKey()),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte(headerMessageID), Value: []byte(msg.ID.String())},
			{Key: []byte(headerType), Value: []byte(msg.Type)},
			{Key: []byte(headerVersion), Value: []byte("1")},
			{Key: []byte(headerProducer), Value: []byte("dhukuti")},
		},
		Timestamp: msg.OccurredAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		metrics.KafkaMessages.WithLabelValues("produce", p.topic, "error").Inc()
		return fmt.Errorf("failed to send activity to Kafka: %w", err)
	}
	metrics.KafkaMessages.WithLabelValues("produce", p.topic, "success").Inc()

	p.log.DebugContext(ctx, "Activity published to Kafka",
		"topic", p.topic,
		"partition", partition,
		"offset", offset,
		"type", string(msg.Type),
	)
	return nil
}

func (p *KafkaPublisher) Close() error {
	if p.producer == nil {
		return nil
	}
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}
