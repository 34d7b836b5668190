package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"quiz-platform/pkg/logger"
)

type EventType string

const (
	AnswersSubmittedEvent EventType = "answers.submitted"
	AnswersDeletedEvent   EventType = "answers.deleted"
)

type AnswersSubmitted struct {
	AnswerID       string    `json:"answerId"`
	QuizID         string    `json:"quizId"`
	UserID         string    `json:"userId"`
	Total          int       `json:"total"`
	CorrectAnswers int       `json:"correctAnswers"`
	TotalCoins     int       `json:"totalCoins"`
	OccurredAt     time.Time `json:"occurredAt"`
}

type AnswersDeleted struct {
	IDs          []string  `json:"ids"`
	DeletedCount int64     `json:"deletedCount"`
	OccurredAt   time.Time `json:"occurredAt"`
}

type Publisher interface {
	PublishAnswersSubmitted(ctx context.Context, e AnswersSubmitted) error
	PublishAnswersDeleted(ctx context.Context, e AnswersDeleted) error
	Close() error
}

type RabbitPublisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	enabled  bool
}

// NewRabbitPublisher connects and declares a durable topic exchange. An empty url
// returns a publisher that drops every event.
func NewRabbitPublisher(url, exchange string) (*RabbitPublisher, error) {
	if url == "" {
		logger.Log.Warn("RabbitMQ URL is empty, event publishing is disabled")
		return &RabbitPublisher{exchange: exchange}, nil
	}

	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	logger.Log.Info("Event publisher initialized", zap.String("exchange", exchange))

	return &RabbitPublisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		enabled:  true,
	}, nil
}

func (p *RabbitPublisher) PublishAnswersSubmitted(ctx context.Context, e AnswersSubmitted) error {
	return p.publish(ctx, AnswersSubmittedEvent, e, amqp091.Table{
		"event_type": string(AnswersSubmittedEvent),
		"user_id":    e.UserID,
		"quiz_id":    e.QuizID,
	})
}

func (p *RabbitPublisher) PublishAnswersDeleted(ctx context.Context, e AnswersDeleted) error {
	return p.publish(ctx, AnswersDeletedEvent, e, amqp091.Table{
		"event_type": string(AnswersDeletedEvent),
	})
}

func (p *RabbitPublisher) publish(ctx context.Context, eventType EventType, payload interface{}, headers amqp091.Table) error {
	if !p.enabled {
		logger.Log.Debug("Event publishing disabled, skipping event", zap.String("event_type", string(eventType)))
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(ctx,
		p.exchange,        // exchange
		string(eventType), // routing key
		false,             // mandatory
		false,             // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
			Headers:      headers,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	logger.Log.Debug("Published event", zap.String("event_type", string(eventType)))
	return nil
}

func (p *RabbitPublisher) Close() error {
	if !p.enabled {
		return nil
	}

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			logger.Log.Warn("Error closing RabbitMQ channel", zap.Error(err))
		}
	}

	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("error closing RabbitMQ connection: %w", err)
		}
	}

	return nil
}

// MemoryPublisher records events in process instead of sending them.
type MemoryPublisher struct {
	mu        sync.Mutex
	Submitted []AnswersSubmitted
	Deleted   []AnswersDeleted
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (m *MemoryPublisher) PublishAnswersSubmitted(_ context.Context, e AnswersSubmitted) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Submitted = append(m.Submitted, e)
	return nil
}

func (m *MemoryPublisher) PublishAnswersDeleted(_ context.Context, e AnswersDeleted) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deleted = append(m.Deleted, e)
	return nil
}

func (m *MemoryPublisher) Close() error {
	return nil
}
