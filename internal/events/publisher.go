package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Publisher is the interface services publish lifecycle events through.
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// KafkaPublisher publishes events to Kafka through Watermill.
type KafkaPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
	topic     string
}

type PublisherConfig struct {
	Brokers []string
	Topic   string
	Logger  *slog.Logger
}

func NewKafkaPublisher(config PublisherConfig) (*KafkaPublisher, error) {
	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   config.Brokers,
		Marshaler: kafka.DefaultMarshaler{},
	}, watermill.NewSlogLogger(config.Logger))
	if err != nil {
		return nil, fmt.Errorf("create kafka publisher: %w", err)
	}

	return &KafkaPublisher{
		publisher: publisher,
		logger:    config.Logger,
		topic:     config.Topic,
	}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_type", string(event.Type))
	msg.Metadata.Set("source", event.Source)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		p.logger.Error("failed to publish event",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
		return fmt.Errorf("publish event: %w", err)
	}

	p.logger.Debug("published event",
		"event_id", event.ID,
		"event_type", event.Type,
		"topic", p.topic)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.publisher.Close()
}

// NoopPublisher is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event *Event) error { return nil }
func (NoopPublisher) Close() error                                    { return nil }

// MockPublisher records events in memory for tests.
type MockPublisher struct {
	mu     sync.Mutex
	events []Event
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, event *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, *event)
	return nil
}

func (m *MockPublisher) Close() error { return nil }

func (m *MockPublisher) PublishedEvents() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

func (m *MockPublisher) ClearEvents() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}
