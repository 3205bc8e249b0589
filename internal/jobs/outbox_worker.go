package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DaniellaNwagu/credit-risk/internal/domain/loan"
	"github.com/DaniellaNwagu/credit-risk/internal/events"
)

type OutboxJob struct {
	ID          int64
	Topic       string
	Payload     []byte
	Status      string
	Attempts    int32
	LastError   string
	AvailableAt time.Time
}

type OutboxRepository interface {
	ClaimPending(ctx context.Context, limit int32) ([]OutboxJob, error)
	MarkDone(ctx context.Context, jobID int64) error
	MarkRetry(ctx context.Context, jobID int64, nextAvailableAt time.Time, lastError string) error
	MarkFailed(ctx context.Context, jobID int64, lastError string) error
}

// Worker relays claimed outbox jobs to the event publisher.
type Worker struct {
	outboxRepo    OutboxRepository
	publisher     events.Publisher
	assessedTopic string
	maxAttempts   int32
	now           func() time.Time
	retryBackoff  func(attempt int32) time.Duration
}

func NewWorker(outboxRepo OutboxRepository, publisher events.Publisher, assessedTopic string) *Worker {
	if assessedTopic == "" {
		assessedTopic = loan.OutboxTopicAssessed
	}
	return &Worker{
		outboxRepo:    outboxRepo,
		publisher:     publisher,
		assessedTopic: assessedTopic,
		maxAttempts:   5,
		now:           func() time.Time { return time.Now().UTC() },
		retryBackoff: func(attempt int32) time.Duration {
			if attempt < 1 {
				attempt = 1
			}
			return time.Duration(attempt*15) * time.Second
		},
	}
}

// RunOnce processes one batch. It only fails when the outbox itself cannot be
// read or updated; publish failures are recorded on the job.
func (w *Worker) RunOnce(ctx context.Context, batchSize int32) error {
	jobs, err := w.outboxRepo.ClaimPending(ctx, batchSize)
	if err != nil {
		return err
	}

	for _, job := range jobs {
		if err := w.processJob(ctx, job); err != nil {
			return err
		}
	}

	return nil
}

func (w *Worker) processJob(ctx context.Context, job OutboxJob) error {
	switch job.Topic {
	case loan.OutboxTopicAssessed:
		return w.processAssessed(ctx, job)
	default:
		return w.handleJobError(ctx, job, errors.New("unsupported_topic"))
	}
}

func (w *Worker) processAssessed(ctx context.Context, job OutboxJob) error {
	var payload loan.AssessedEvent
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return w.handleJobError(ctx, job, fmt.Errorf("invalid_payload"))
	}
	if payload.LoanID == "" {
		return w.handleJobError(ctx, job, errors.New("missing_loan_id"))
	}

	err := w.publisher.Publish(ctx, events.Message{
		Topic: w.assessedTopic,
		Key:   []byte(payload.LoanID),
		Value: job.Payload,
		Headers: map[string]string{
			"event_type":   job.Topic,
			"content-type": "application/json",
		},
	})
	if err != nil {
		return w.handleJobError(ctx, job, err)
	}

	return w.outboxRepo.MarkDone(ctx, job.ID)
}

func (w *Worker) handleJobError(ctx context.Context, job OutboxJob, err error) error {
	msg := err.Error()
	if job.Attempts >= w.maxAttempts {
		return w.outboxRepo.MarkFailed(ctx, job.ID, msg)
	}
	next := w.now().Add(w.retryBackoff(job.Attempts))
	return w.outboxRepo.MarkRetry(ctx, job.ID, next, msg)
}
