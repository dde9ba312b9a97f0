package events

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/segmentio/kafka-go"
)

// Publisher is the narrow interface handlers depend on, so tests can swap
// in a recorder and the API keeps working when Kafka is not configured.
type Publisher interface {
	Publish(ctx context.Context, topic, eventType, key string, payload interface{}) error
}

// KafkaPublisher lazily manages one writer per topic. Values are JSON;
// the event type travels in a message header.
type KafkaPublisher struct {
	brokers []string
	mu      sync.Mutex
	writers map[string]*kafka.Writer
}

// NewKafkaPublisher creates a KafkaPublisher.
func NewKafkaPublisher(brokers []string) *KafkaPublisher {
	return &KafkaPublisher{
		brokers: brokers,
		writers: make(map[string]*kafka.Writer),
	}
}

// Publish marshals the payload and writes it to the topic.
func (p *KafkaPublisher) Publish(ctx context.Context, topic, eventType, key string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}
	return p.writerForTopic(topic).WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) writerForTopic(topic string) *kafka.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if writer, ok := p.writers[topic]; ok {
		return writer
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(p.brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		Async:        false,
	}
	p.writers[topic] = writer
	return writer
}

// Close releases all writers.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for topic, writer := range p.writers {
		if err := writer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.writers, topic)
	}
	return firstErr
}

// LogPublisher logs events instead of writing to Kafka; used when no
// brokers are configured.
type LogPublisher struct {
	Logger *log.Logger
}

// Publish logs the event.
func (p LogPublisher) Publish(_ context.Context, topic, eventType, key string, payload interface{}) error {
	logger := p.Logger
	if logger == nil {
		logger = log.Default()
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	logger.Printf("event %s key=%s topic=%s payload=%s", eventType, key, topic, body)
	return nil
}
