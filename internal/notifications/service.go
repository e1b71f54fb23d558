package notifications

import (
	"context"
	"log/slog"

	"busline/internal/reservations"
	"busline/internal/shared/config"
)

// Service bundles the ticket confirmation pipeline: the Kafka producer
// the API publishes to, and the consumer workers that send emails. When
// Kafka is disabled the service is inert and the publisher is nil.
type Service struct {
	Producer *TicketProducer
	Consumer *TicketConsumer
	logger   *slog.Logger
}

func NewService(cfg *config.Config, logger *slog.Logger) (*Service, error) {
	if !cfg.Kafka.Enabled {
		logger.Info("kafka disabled, ticket notifications are off")
		return &Service{logger: logger}, nil
	}

	producerCfg := DefaultProducerConfig()
	producerCfg.Brokers = cfg.Kafka.Brokers
	producerCfg.Topic = cfg.Kafka.TicketTopic

	producer, err := NewTicketProducer(producerCfg, logger)
	if err != nil {
		return nil, err
	}

	consumerCfg := DefaultConsumerConfig()
	consumerCfg.Brokers = cfg.Kafka.Brokers
	consumerCfg.GroupID = cfg.Kafka.GroupID
	consumerCfg.Topics = []string{cfg.Kafka.TicketTopic}

	consumer, err := NewTicketConsumer(consumerCfg, NewMockEmailService(logger), logger)
	if err != nil {
		producer.Close()
		return nil, err
	}

	return &Service{
		Producer: producer,
		Consumer: consumer,
		logger:   logger,
	}, nil
}

// Publisher returns the producer as a reservations.TicketPublisher, or nil
// when Kafka is disabled.
func (s *Service) Publisher() reservations.TicketPublisher {
	if s.Producer == nil {
		return nil
	}
	return s.Producer
}

// Start launches the consumer workers.
func (s *Service) Start(ctx context.Context) error {
	if s.Consumer == nil {
		return nil
	}
	return s.Consumer.Start(ctx)
}

// Stop shuts the pipeline down in consumer-then-producer order.
func (s *Service) Stop() {
	if s.Consumer != nil {
		if err := s.Consumer.Stop(); err != nil {
			s.logger.Error("failed to stop ticket consumer", "error", err)
		}
	}
	if s.Producer != nil {
		if err := s.Producer.Close(); err != nil {
			s.logger.Error("failed to close ticket producer", "error", err)
		}
	}
}
