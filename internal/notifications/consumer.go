package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"dhukuti/internal/activity"
	"dhukuti/internal/shared/config"
	"dhukuti/pkg/logger"
	"dhukuti/pkg/metrics"
)

// ConsumerConfig controls the activity feed workers.
type ConsumerConfig struct {
	Brokers           []string
	GroupID           string
	Topics            []string
	SessionTimeout    time.Duration
	Heartbeat         time.Duration
	MaxProcessingTime time.Duration
	OffsetOldest      bool
	MaxRetries        int
	RetryBackoff      time.Duration
}

func ConsumerConfigFrom(cfg config.KafkaConfig) *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:           cfg.Brokers,
		GroupID:           cfg.ConsumerGroup,
		Topics:            []string{cfg.ActivityTopic},
		SessionTimeout:    30 * time.Second,
		Heartbeat:         3 * time.Second,
		MaxProcessingTime: time.Minute,
		OffsetOldest:      true,
		MaxRetries:        cfg.MaxRetries,
		RetryBackoff:      cfg.RetryBackoff,
	}
}

// ActivityConsumer reads the activity topic and records each message in the feed.
type ActivityConsumer struct {
	group    sarama.ConsumerGroup
	config   *ConsumerConfig
	recorder activity.Recorder
	log      *logger.Logger
	wg       sync.WaitGroup
}

func NewActivityConsumer(cfg *ConsumerConfig, recorder activity.Recorder) (*ActivityConsumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = cfg.SessionTimeout
	saramaConfig.Consumer.Group.Heartbeat.Interval = cfg.Heartbeat
	saramaConfig.Consumer.MaxProcessingTime = cfg.MaxProcessingTime
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second
	if cfg.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &ActivityConsumer{
		group:    group,
		config:   cfg,
		recorder: recorder,
		log:      logger.GetDefault(),
	}, nil
}

// Start launches numWorkers consume loops. They run until ctx is cancelled.
func (c *ActivityConsumer) Start(ctx context.Context, numWorkers int) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	c.log.Info("Starting activity consumers", "workers", numWorkers, "topics", c.config.Topics)

	go c.handleErrors()

	for i := 0; i < numWorkers; i++ {
		c.wg.Add(1)
		go func(workerID int) {
			defer c.wg.Done()
			c.runWorker(ctx, workerID)
		}(i)
	}
}

func (c *ActivityConsumer) runWorker(ctx context.Context, workerID int) {
	handler := &groupHandler{
		workerID: workerID,
		recorder: c.recorder,
		retries:  c.config.MaxRetries,
		backoff:  c.config.RetryBackoff,
		log:      c.log,
	}

	for {
		if err := c.group.Consume(ctx, c.config.Topics, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}
			c.log.Warn("Activity consumer error", "worker", workerID, "error", err.Error())
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
			}
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func (c *ActivityConsumer) handleErrors() {
	for err := range c.group.Errors() {
		c.log.Error("Consumer group error", "error", err.Error())
	}
}

// Stop closes the consumer group and waits for the workers to exit.
func (c *ActivityConsumer) Stop() error {
	err := c.group.Close()
	c.wg.Wait()
	if err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	c.log.Info("Activity consumer stopped")
	return nil
}

type groupHandler struct {
	workerID int
	recorder activity.Recorder
	retries  int
	backoff  time.Duration
	log      *logger.Logger
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error {
	h.log.Debug("Consumer group session started", "worker", h.workerID)
	return nil
}

func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	h.log.Debug("Consumer group session ended", "worker", h.workerID)
	return nil
}

func (h *groupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok || message == nil {
				return nil
			}
			if err := h.process(sess.Context(), message); err != nil {
				metrics.KafkaMessages.WithLabelValues("consume", message.Topic, "error").Inc()
				h.log.Error("Failed to record activity",
					"worker", h.workerID,
					"partition", message.Partition,
					"offset", message.Offset,
					"error", err.Error(),
				)
				// Leave the offset unmarked unless the payload itself is bad.
				if !errors.Is(err, errMalformed) {
					continue
				}
			} else {
				metrics.KafkaMessages.WithLabelValues("consume", message.Topic, "success").Inc()
			}
			sess.MarkMessage(message, "")

		case <-sess.Context().Done():
			return nil
		}
	}
}

var errMalformed = errors.New("malformed activity message")

func (h *groupHandler) process(ctx context.Context, message *sarama.ConsumerMessage) error {
	var msg activity.Message
	if err := json.Unmarshal(message.Value, &msg); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	return h.executeWithRetry(ctx, msg)
}

func (h *groupHandler) executeWithRetry(ctx context.Context, msg activity.Message) error {
	var err error
	for attempt := 0; attempt <= h.retries; attempt++ {
		if err = h.recorder.Record(ctx, msg); err == nil {
			if attempt > 0 {
				h.log.Info("Recorded activity after retries", "worker", h.workerID, "retries", attempt)
			}
			return nil
		}
		if attempt == h.retries {
			break
		}

		delay := h.backoff * time.Duration(1<<attempt)
		h.log.Warn("Retrying activity", "worker", h.workerID, "attempt", attempt+1, "delay", delay.String())

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("giving up after %d attempts: %w", h.retries+1, err)
}
