package util

import (
	"context"
	"fmt"
	"time"

	"mobodokan/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

// KafkaProducer publishes PRODUCT_CREATED/UPDATED/DELETED events to the
// product_events topic. Downstream consumers (search indexers, analytics)
// subscribe to it; the catalog itself never depends on delivery.
type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Second,
	}

	return &KafkaProducer{writer: writer, topic: topic}
}

// PublishMessage sends one message. The key is the product identifier so
// events for the same product stay ordered within a partition.
func (p *KafkaProducer) PublishMessage(ctx context.Context, key string, value []byte) error {
	message := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}

	timer := metrics.NewKafkaProduceTimer("catalog-service", p.topic)
	if err := p.writer.WriteMessages(ctx, message); err != nil {
		timer.Error()
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}
	timer.Success()

	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
