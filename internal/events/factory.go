package events

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/DaniellaNwagu/credit-risk/internal/config"
)

func NewPublisherFromConfig(cfg config.Config, logger *slog.Logger) (Publisher, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.EventPublisher))
	if mode == "" || mode == "log" {
		return NewLogPublisher(logger), nil
	}
	if mode != "kafka" {
		return nil, fmt.Errorf("invalid EVENT_PUBLISHER: %s", cfg.EventPublisher)
	}
	p, err := NewKafkaPublisher(cfg.KafkaBrokers)
	if err != nil {
		return nil, err
	}
	return p, nil
}
