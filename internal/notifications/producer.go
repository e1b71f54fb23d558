package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"busline/internal/reservations"

	"github.com/IBM/sarama"
)

// ProducerConfig contains configuration for the Kafka ticket producer
type ProducerConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	TimeoutMs        int
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
	MaxMessageBytes  int
}

// DefaultProducerConfig returns a default producer configuration
func DefaultProducerConfig() *ProducerConfig {
	return &ProducerConfig{
		Brokers:          []string{"localhost:9092"},
		Topic:            "ticket-confirmations",
		RetryMax:         3,
		TimeoutMs:        10000,
		RequiredAcks:     sarama.WaitForAll,
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
		MaxMessageBytes:  1000000,
	}
}

// TicketProducer publishes confirmation events to Kafka. It satisfies
// reservations.TicketPublisher.
type TicketProducer struct {
	producer sarama.SyncProducer
	config   *ProducerConfig
	logger   *slog.Logger
}

func NewTicketProducer(config *ProducerConfig, logger *slog.Logger) (*TicketProducer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	saramaConfig.Producer.MaxMessageBytes = config.MaxMessageBytes

	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner keeps one reservation's messages ordered.
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	logger.Info("kafka ticket producer created", "brokers", config.Brokers, "topic", config.Topic)

	return &TicketProducer{
		producer: producer,
		config:   config,
		logger:   logger,
	}, nil
}

// PublishTicketConfirmed publishes one confirmation event.
func (p *TicketProducer) PublishTicketConfirmed(ctx context.Context, event reservations.TicketConfirmedEvent) error {
	email := NewTicketEmail(event)

	messageBytes, err := email.ToJSON()
	if err != nil {
		return err
	}

	message := &sarama.ProducerMessage{
		Topic:     p.config.Topic,
		Key:       sarama.StringEncoder(email.PartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Headers:   p.createHeaders(email),
		Timestamp: email.CreatedAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send ticket confirmation to kafka: %w", err)
	}

	p.logger.Info("ticket confirmation published",
		"topic", p.config.Topic,
		"partition", partition,
		"offset", offset,
		"pnr", email.PNR,
	)
	return nil
}

func (p *TicketProducer) createHeaders(email *TicketEmail) []sarama.RecordHeader {
	return []sarama.RecordHeader{
		{Key: []byte("message_id"), Value: []byte(email.ID.String())},
		{Key: []byte("reservation_id"), Value: []byte(email.ReservationID)},
		{Key: []byte("pnr"), Value: []byte(email.PNR)},
		{Key: []byte("producer"), Value: []byte("busline-api")},
		{Key: []byte("created_at"), Value: []byte(email.CreatedAt.Format(time.RFC3339))},
	}
}

// Close closes the Kafka producer
func (p *TicketProducer) Close() error {
	if p.producer != nil {
		if err := p.producer.Close(); err != nil {
			return fmt.Errorf("failed to close kafka producer: %w", err)
		}
		p.logger.Info("kafka ticket producer closed")
	}
	return nil
}
