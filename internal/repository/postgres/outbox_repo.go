package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DaniellaNwagu/credit-risk/internal/jobs"
	"github.com/DaniellaNwagu/credit-risk/internal/ws"
)

// staleProcessingAfter bounds how long a claimed job may stay in processing
// before another worker is allowed to reclaim it.
const staleProcessingAfter = 5 * time.Minute

type OutboxRepository struct {
	db querier
}

func NewOutboxRepository(pool *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{db: pool}
}

func (r *OutboxRepository) Enqueue(ctx context.Context, topic string, payload []byte) error {
	q := `INSERT INTO outbox_jobs (topic, payload, status) VALUES ($1, $2::jsonb, 'pending')`
	_, err := r.db.Exec(ctx, q, topic, payload)
	return err
}

func (r *OutboxRepository) ClaimPending(ctx context.Context, limit int32) ([]jobs.OutboxJob, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `
WITH claimable AS (
  SELECT id
  FROM outbox_jobs
  WHERE (status = 'pending' AND available_at <= NOW())
     OR (status = 'processing' AND updated_at < NOW() - make_interval(secs => $2))
  ORDER BY id ASC
  LIMIT $1
  FOR UPDATE SKIP LOCKED
)
UPDATE outbox_jobs o
SET status = 'processing', attempts = o.attempts + 1, updated_at = NOW()
FROM claimable
WHERE o.id = claimable.id
RETURNING o.id, o.topic, o.payload::text, o.status, o.attempts, o.last_error, o.available_at
`
	rows, err := r.db.Query(ctx, q, limit, staleProcessingAfter.Seconds())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]jobs.OutboxJob, 0)
	for rows.Next() {
		var job jobs.OutboxJob
		var payload string
		if err := rows.Scan(&job.ID, &job.Topic, &payload, &job.Status, &job.Attempts, &job.LastError, &job.AvailableAt); err != nil {
			return nil, err
		}
		job.Payload = []byte(payload)
		out = append(out, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *OutboxRepository) MarkDone(ctx context.Context, jobID int64) error {
	_, err := r.db.Exec(ctx, `UPDATE outbox_jobs SET status = 'done', last_error = '', updated_at = NOW() WHERE id = $1`, jobID)
	return err
}

func (r *OutboxRepository) MarkRetry(ctx context.Context, jobID int64, nextAvailableAt time.Time, lastError string) error {
	q := `UPDATE outbox_jobs SET status = 'pending', available_at = $2, last_error = $3, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, q, jobID, nextAvailableAt, lastError)
	return err
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, jobID int64, lastError string) error {
	q := `UPDATE outbox_jobs SET status = 'failed', last_error = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, q, jobID, lastError)
	return err
}

// LatestEventID is the highest id written for topic, or 0 when there is none.
func (r *OutboxRepository) LatestEventID(ctx context.Context, topic string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0)::bigint FROM outbox_jobs WHERE topic = $1`, topic).Scan(&id)
	return id, err
}

// ListEventsSince feeds the websocket notifier. It reads every row for the
// topic regardless of relay status.
func (r *OutboxRepository) ListEventsSince(ctx context.Context, topic string, lastID int64, limit int32) ([]ws.FeedEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	q := `
SELECT id, payload::text, created_at
FROM outbox_jobs
WHERE topic = $1 AND id > $2
ORDER BY id ASC
LIMIT $3
`
	rows, err := r.db.Query(ctx, q, topic, lastID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ws.FeedEvent, 0)
	for rows.Next() {
		var ev ws.FeedEvent
		var payload string
		if err := rows.Scan(&ev.ID, &payload, &ev.CreatedAt); err != nil {
			return nil, err
		}
		ev.Payload = []byte(payload)
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
