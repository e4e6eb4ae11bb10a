package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypeVisitCompleted MessageType = "visit.completed"
	MessageTypeFortDiscovered MessageType = "fort.discovered"
)

// Message — конверт сообщения.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// VisitCompletedPayload — payload успешного визита.
// Потребители: webhook-нотификаторы, внешние пайплайны.
type VisitCompletedPayload struct {
	AttemptID  string  `json:"attempt_id"`
	JobID      int64   `json:"job_id"`
	ExternalID string  `json:"external_id"`
	Name       string  `json:"name,omitempty"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Updated    int64   `json:"updated"`
}

// FortDiscoveredPayload — payload о новом fort'е, найденном внешним
// сканером во время работы daemon'а. Потребитель: raider (добавляет job).
type FortDiscoveredPayload struct {
	ID           int64   `json:"id"`
	ExternalID   string  `json:"external_id"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	Name         string  `json:"name,omitempty"`
	URL          string  `json:"url,omitempty"`
	LastModified int64   `json:"last_modified"`
	Updated      int64   `json:"updated"`
}

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{conn: conn, logger: logger}
}

// Publish публикует сообщение в указанный exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	ch := p.conn.Channel()
	if ch == nil {
		return fmt.Errorf("no channel available")
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	err = ch.PublishWithContext(
		ctx,
		string(exchange),   // exchange
		string(routingKey), // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    msg.ID,
			Timestamp:    msg.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
	}

	p.logger.Debug("published message",
		"exchange", exchange,
		"routing_key", routingKey,
		"message_id", msg.ID,
		"type", msg.Type,
	)
	return nil
}

// PublishVisitCompleted публикует событие об успешном визите.
func (p *Publisher) PublishVisitCompleted(ctx context.Context, payload VisitCompletedPayload) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeVisitCompleted,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangeVisits, RoutingKeyCompleted, msg)
}

// ParsePayload парсит payload сообщения в указанный тип.
func ParsePayload[T any](msg *Message) (T, error) {
	var result T

	// Payload приходит распарсенным как map; прогоняем через json.
	payloadBytes, err := json.Marshal(msg.Payload)
	if err != nil {
		return result, fmt.Errorf("marshal payload: %w", err)
	}

	if err := json.Unmarshal(payloadBytes, &result); err != nil {
		return result, fmt.Errorf("unmarshal payload: %w", err)
	}

	return result, nil
}
