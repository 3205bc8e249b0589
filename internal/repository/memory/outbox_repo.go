package memory

import (
	"context"
	"sync"
	"time"

	"github.com/DaniellaNwagu/credit-risk/internal/ws"
)

type outboxEntry struct {
	id        int64
	topic     string
	payload   []byte
	createdAt time.Time
}

// OutboxRepository keeps enqueued events in process so the websocket feed
// works without Postgres.
type OutboxRepository struct {
	mu      sync.RWMutex
	entries []outboxEntry
	nextID  int64
}

func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{}
}

func (r *OutboxRepository) Enqueue(_ context.Context, topic string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	cp := make([]byte, len(payload))
	copy(cp, payload)
	r.entries = append(r.entries, outboxEntry{id: r.nextID, topic: topic, payload: cp, createdAt: time.Now().UTC()})
	return nil
}

func (r *OutboxRepository) LatestEventID(_ context.Context, topic string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].topic == topic {
			return r.entries[i].id, nil
		}
	}
	return 0, nil
}

func (r *OutboxRepository) ListEventsSince(_ context.Context, topic string, lastID int64, limit int32) ([]ws.FeedEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ws.FeedEvent, 0)
	for _, e := range r.entries {
		if e.id <= lastID || e.topic != topic {
			continue
		}
		out = append(out, ws.FeedEvent{ID: e.id, Payload: e.payload, CreatedAt: e.createdAt})
		if int32(len(out)) >= limit {
			break
		}
	}
	return out, nil
}
