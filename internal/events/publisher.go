package events

import (
	"context"
	"fmt"
	"log/slog"
)

// Message is one event handed to a broker.
type Message struct {
	Topic   string
	Key     []byte
	Value   []byte
	Headers map[string]string
}

type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// LogPublisher writes events to the log instead of a broker. It is the
// default for local runs.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, msg Message) error {
	if msg.Topic == "" {
		return fmt.Errorf("missing topic")
	}
	p.logger.Info("event published", "topic", msg.Topic, "key", string(msg.Key), "bytes", len(msg.Value))
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
