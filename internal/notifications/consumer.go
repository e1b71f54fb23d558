package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
)

// ConsumerConfig contains configuration for the ticket email workers
type ConsumerConfig struct {
	Brokers              []string
	GroupID              string
	Topics               []string
	SessionTimeoutMs     int
	HeartbeatMs          int
	MaxRetries           int
	RetryBackoffDuration time.Duration
}

// DefaultConsumerConfig returns a default consumer configuration
func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:              []string{"localhost:9092"},
		GroupID:              "busline-notifications",
		Topics:               []string{"ticket-confirmations"},
		SessionTimeoutMs:     30000,
		HeartbeatMs:          3000,
		MaxRetries:           3,
		RetryBackoffDuration: time.Second,
	}
}

// TicketConsumer reads confirmation events and sends e-ticket emails.
type TicketConsumer struct {
	consumerGroup sarama.ConsumerGroup
	config        *ConsumerConfig
	emailService  EmailService
	logger        *slog.Logger
	cancel        context.CancelFunc
}

func NewTicketConsumer(config *ConsumerConfig, emailService EmailService, logger *slog.Logger) (*TicketConsumer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Consumer.Group.Session.Timeout = time.Duration(config.SessionTimeoutMs) * time.Millisecond
	saramaConfig.Consumer.Group.Heartbeat.Interval = time.Duration(config.HeartbeatMs) * time.Millisecond
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second

	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &TicketConsumer{
		consumerGroup: consumerGroup,
		config:        config,
		emailService:  emailService,
		logger:        logger,
	}, nil
}

// Start launches the consume loop. Non-blocking; workers stop when the
// context is cancelled or Stop is called.
func (c *TicketConsumer) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	go c.handleErrors()

	handler := &ticketClaimHandler{consumer: c}
	go func() {
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("ticket consumer shutting down")
				return
			default:
				if err := c.consumerGroup.Consume(ctx, c.config.Topics, handler); err != nil {
					c.logger.Error("error consuming ticket confirmations", "error", err)
					time.Sleep(time.Second)
				}
			}
		}
	}()

	c.logger.Info("ticket consumer started", "topics", c.config.Topics, "group", c.config.GroupID)
	return nil
}

func (c *TicketConsumer) handleErrors() {
	for err := range c.consumerGroup.Errors() {
		c.logger.Error("consumer group error", "error", err)
	}
}

// Stop shuts the consumer group down.
func (c *TicketConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	if err := c.consumerGroup.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	c.logger.Info("ticket consumer stopped")
	return nil
}

type ticketClaimHandler struct {
	consumer *TicketConsumer
}

func (h *ticketClaimHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *ticketClaimHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *ticketClaimHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}
			if err := h.processMessage(session.Context(), message); err != nil {
				h.consumer.logger.Error("failed to process ticket confirmation",
					"topic", message.Topic, "offset", message.Offset, "error", err)
			} else {
				session.MarkMessage(message, "")
			}

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *ticketClaimHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	var email TicketEmail
	if err := json.Unmarshal(message.Value, &email); err != nil {
		return fmt.Errorf("failed to unmarshal ticket email: %w", err)
	}

	email.Status = StatusSending
	if err := h.sendWithRetry(ctx, &email); err != nil {
		email.Status = StatusFailed
		email.LastError = err.Error()
		return err
	}

	email.Status = StatusSent
	return nil
}

func (h *ticketClaimHandler) sendWithRetry(ctx context.Context, email *TicketEmail) error {
	maxRetries := h.consumer.config.MaxRetries
	backoff := h.consumer.config.RetryBackoffDuration

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := h.consumer.emailService.SendTicket(ctx, email)
		if err == nil {
			return nil
		}
		if attempt == maxRetries {
			return err
		}

		// Exponential backoff
		delay := backoff * time.Duration(1<<attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
