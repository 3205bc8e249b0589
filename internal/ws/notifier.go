package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"
)

const assessedTopic = "loan_assessed"

type FeedEvent struct {
	ID        int64
	Payload   []byte
	CreatedAt time.Time
}

type FeedRepository interface {
	LatestEventID(ctx context.Context, topic string) (int64, error)
	ListEventsSince(ctx context.Context, topic string, lastID int64, limit int32) ([]FeedEvent, error)
}

// Notifier polls the outbox for new assessments and pushes them to the hub.
type Notifier struct {
	repo         FeedRepository
	hub          *Hub
	pollInterval time.Duration
	lastID       int64
	seeded       bool
	logger       *slog.Logger
}

func NewNotifier(repo FeedRepository, hub *Hub, pollInterval time.Duration) *Notifier {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &Notifier{repo: repo, hub: hub, pollInterval: pollInterval, logger: slog.Default()}
}

func (n *Notifier) WithLogger(logger *slog.Logger) *Notifier {
	if logger != nil {
		n.logger = logger
	}
	return n
}

// Seed moves the cursor past every event already stored, so clients only see
// assessments made after startup.
func (n *Notifier) Seed(ctx context.Context) error {
	latest, err := n.repo.LatestEventID(ctx, assessedTopic)
	if err != nil {
		return err
	}
	if latest > n.lastID {
		n.lastID = latest
	}
	n.seeded = true
	return nil
}

// Run polls until ctx is done. Nothing is delivered until the cursor has been
// seeded. A failed poll is logged and retried on the next tick without
// advancing the cursor.
func (n *Notifier) Run(ctx context.Context) error {
	if err := n.Seed(ctx); err != nil && !errors.Is(err, context.Canceled) {
		n.logger.Error("ws feed seed failed", "err", err)
	}

	ticker := time.NewTicker(n.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !n.seeded {
				if err := n.Seed(ctx); err != nil {
					if !errors.Is(err, context.Canceled) {
						n.logger.Error("ws feed seed failed", "err", err)
					}
					continue
				}
			}
			if err := n.Tick(ctx); err != nil && !errors.Is(err, context.Canceled) {
				n.logger.Error("ws feed poll failed", "err", err, "last_id", n.lastID)
			}
		}
	}
}

// Tick forwards every assessment recorded since the previous tick.
func (n *Notifier) Tick(ctx context.Context) error {
	events, err := n.repo.ListEventsSince(ctx, assessedTopic, n.lastID, 100)
	if err != nil {
		return err
	}
	for _, ev := range events {
		if ev.ID > n.lastID {
			n.lastID = ev.ID
		}

		var data map[string]any
		if err := json.Unmarshal(ev.Payload, &data); err != nil {
			continue
		}
		payload, _ := json.Marshal(map[string]any{
			"event": "loan_assessed",
			"data":  data,
		})
		n.hub.Publish(ChannelAssessed, payload)
		if grade, ok := data["risk_grade"].(string); ok && grade != "" {
			n.hub.Publish(GradeChannel(grade), payload)
		}
	}
	return nil
}
