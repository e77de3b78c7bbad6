package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Gaurav200247/suvichar-auth/internal/core/domain"
	"github.com/Gaurav200247/suvichar-auth/internal/core/port"
	"github.com/Gaurav200247/suvichar-auth/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type eventEnvelope struct {
	EventID   string            `json:"event_id"`
	EventType string            `json:"event_type"`
	UserID    string            `json:"user_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Payload   any               `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventType, userID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	envelope := eventEnvelope{
		EventID:   uuid.NewString(),
		EventType: eventType,
		UserID:    userID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata: map[string]string{
			"service":     p.appCfg.Name,
			"environment": p.appCfg.Env,
		},
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Key:   sarama.StringEncoder(userID),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishUserRegistered publishes auth.user.registered events.
func (p *EventPublisher) PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error {
	payload := struct {
		UserID       string    `json:"user_id"`
		PhoneNumber  string    `json:"phone_number"`
		AccountType  string    `json:"account_type"`
		RegisteredAt time.Time `json:"registered_at"`
	}{
		UserID:       event.UserID,
		PhoneNumber:  event.PhoneNumber,
		AccountType:  string(event.AccountType),
		RegisteredAt: event.RegisteredAt.UTC(),
	}

	return p.publish(ctx, "auth.user.registered", event.UserID, event.RegisteredAt, payload)
}

// PublishUserVerified publishes auth.user.verified events.
func (p *EventPublisher) PublishUserVerified(ctx context.Context, event domain.UserVerifiedEvent) error {
	payload := struct {
		UserID      string    `json:"user_id"`
		PhoneNumber string    `json:"phone_number"`
		VerifiedAt  time.Time `json:"verified_at"`
	}{
		UserID:      event.UserID,
		PhoneNumber: event.PhoneNumber,
		VerifiedAt:  event.VerifiedAt.UTC(),
	}

	return p.publish(ctx, "auth.user.verified", event.UserID, event.VerifiedAt, payload)
}

// PublishSessionRevoked publishes auth.session.revoked events.
func (p *EventPublisher) PublishSessionRevoked(ctx context.Context, event domain.SessionRevokedEvent) error {
	payload := struct {
		UserID    string    `json:"user_id"`
		TokenID   string    `json:"token_id"`
		RevokedAt time.Time `json:"revoked_at"`
		Reason    string    `json:"reason"`
	}{
		UserID:    event.UserID,
		TokenID:   event.TokenID,
		RevokedAt: event.RevokedAt.UTC(),
		Reason:    event.Reason,
	}

	return p.publish(ctx, "auth.session.revoked", event.UserID, event.RevokedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
