package event

import (
	"github.com/segmentio/kafka-go"

	"github.com/khoahotran/cv-portfolio/internal/config"
)

func NewActivityReader(cfg config.Config) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		GroupID:  cfg.Kafka.ArchiveGroup,
		Topic:    TopicActivityEvents,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
}
