package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/cv-portfolio/internal/application/service"
	"github.com/khoahotran/cv-portfolio/internal/config"
	"github.com/khoahotran/cv-portfolio/internal/domain/activity"
	"github.com/khoahotran/cv-portfolio/pkg/logger"
)

const (
	TopicProfileEvents  = "profile.events"
	TopicActivityEvents = "activity.events"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaProducerClient struct {
	ProfileEventsWriter  messageWriter
	ActivityEventsWriter messageWriter
	logger               logger.Logger
}

var _ service.EventPublisher = (*KafkaProducerClient)(nil)

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	profileWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicProfileEvents,
		Balancer: &kafka.Hash{},
	}

	activityWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicActivityEvents,
		Balancer: &kafka.LeastBytes{},
	}

	log.Info("Initialize Kafka Producers successfully.", zap.Strings("brokers", brokers))

	return &KafkaProducerClient{
		ProfileEventsWriter:  profileWriter,
		ActivityEventsWriter: activityWriter,
		logger:               log,
	}, nil
}

func (c *KafkaProducerClient) PublishProfileEvent(ctx context.Context, e service.ProfileEvent) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal profile event: %w", err)
	}
	return c.ProfileEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.Locale),
		Value: value,
	})
}

func (c *KafkaProducerClient) PublishActivityEvent(ctx context.Context, e activity.Entry) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal activity entry: %w", err)
	}
	return c.ActivityEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.ID),
		Value: value,
	})
}

func (c *KafkaProducerClient) Close() {
	if c.ProfileEventsWriter != nil {
		c.ProfileEventsWriter.Close()
	}
	if c.ActivityEventsWriter != nil {
		c.ActivityEventsWriter.Close()
	}
	c.logger.Info("Closed Kafka Producers")
}

// NopPublisher is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishProfileEvent(context.Context, service.ProfileEvent) error { return nil }

func (NopPublisher) PublishActivityEvent(context.Context, activity.Entry) error { return nil }
