package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/bookquiz/bookquiz-backend/internal/config"
	"github.com/bookquiz/bookquiz-backend/internal/model"
	"github.com/bookquiz/bookquiz-backend/internal/repository"
)

const (
	AttemptBatchSize    = 50
	AttemptBatchTimeout = 2 * time.Second
	AttemptPollTimeout  = 1 * time.Second
)

// AttemptQueue is the producer side of the attempt persistence pipeline.
// Grading enqueues summaries; the AttemptWorker drains them into Postgres.
type AttemptQueue struct {
	rdb *redis.Client
}

// NewAttemptQueue creates a new AttemptQueue.
func NewAttemptQueue(rdb *redis.Client) *AttemptQueue {
	return &AttemptQueue{rdb: rdb}
}

// Enqueue pushes an attempt summary onto the persistence queue.
func (q *AttemptQueue) Enqueue(ctx context.Context, a model.QuizAttempt) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return q.rdb.RPush(ctx, config.QueueKey.PersistAttemptsQueue, raw).Err()
}

// AttemptWorker drains the attempt queue into Postgres in batches.
type AttemptWorker struct {
	rdb  *redis.Client
	repo *repository.AttemptRepository
	log  zerolog.Logger
}

// NewAttemptWorker creates a new AttemptWorker.
func NewAttemptWorker(rdb *redis.Client, repo *repository.AttemptRepository, log zerolog.Logger) *AttemptWorker {
	return &AttemptWorker{
		rdb:  rdb,
		repo: repo,
		log:  log.With().Str("component", "attempt_worker").Logger(),
	}
}

// Start runs the worker loop until ctx is cancelled, flushing any buffered
// batch before returning.
func (w *AttemptWorker) Start(ctx context.Context) {
	w.log.Info().Msg("AttemptWorker started")

	batch := make([]model.QuizAttempt, 0, AttemptBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= AttemptBatchSize || time.Since(lastFlush) >= AttemptBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, AttemptPollTimeout, config.QueueKey.PersistAttemptsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var a model.QuizAttempt
			if err := json.Unmarshal([]byte(item[1]), &a); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, a)
		}
	}
}

// flushSafe bulk-inserts the batch, falling back to row-by-row inserts and
// re-queueing anything that still fails.
func (w *AttemptWorker) flushSafe(ctx context.Context, batch []model.QuizAttempt) {
	if len(batch) == 0 {
		return
	}

	if err := w.repo.InsertBatch(ctx, batch); err != nil {
		w.log.Warn().Err(err).Msg("bulk attempt insert failed, using fallback")

		for i := range batch {
			if err := w.repo.Insert(ctx, &batch[i]); err != nil {
				w.log.Error().Err(err).Msg("single attempt insert failed, requeueing")
				raw, _ := json.Marshal(batch[i])
				w.rdb.RPush(ctx, config.QueueKey.PersistAttemptsQueue, raw)
			}
		}
	}
}
