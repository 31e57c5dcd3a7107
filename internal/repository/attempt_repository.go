package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookquiz/bookquiz-backend/internal/model"
)

// AttemptRepository persists graded quiz attempt summaries.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// InsertBatch bulk-inserts attempt summaries in one statement via UNNEST.
func (r *AttemptRepository) InsertBatch(ctx context.Context, attempts []model.QuizAttempt) error {
	if len(attempts) == 0 {
		return nil
	}

	sessionIDs := make([]string, len(attempts))
	books := make([]string, len(attempts))
	questionCounts := make([]int32, len(attempts))
	correctCounts := make([]int32, len(attempts))
	gradedAts := make([]time.Time, len(attempts))
	for i, a := range attempts {
		sessionIDs[i] = a.SessionID
		books[i] = a.BookSource
		questionCounts[i] = int32(a.QuestionCount)
		correctCounts[i] = int32(a.CorrectCount)
		gradedAts[i] = a.GradedAt
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO quiz_attempts (session_id, book_source, question_count, correct_count, graded_at)
		 SELECT * FROM UNNEST($1::text[], $2::text[], $3::int[], $4::int[], $5::timestamptz[])`,
		sessionIDs, books, questionCounts, correctCounts, gradedAts,
	)
	return err
}

// Insert persists a single attempt summary.
func (r *AttemptRepository) Insert(ctx context.Context, a *model.QuizAttempt) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO quiz_attempts (session_id, book_source, question_count, correct_count, graded_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		a.SessionID, a.BookSource, a.QuestionCount, a.CorrectCount, a.GradedAt,
	)
	return err
}

// ListRecent returns the most recently graded attempts, newest first.
func (r *AttemptRepository) ListRecent(ctx context.Context, limit int) ([]model.QuizAttempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, session_id, book_source, question_count, correct_count, graded_at
		 FROM quiz_attempts ORDER BY graded_at DESC, id DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.QuizAttempt
	for rows.Next() {
		var a model.QuizAttempt
		if err := rows.Scan(&a.ID, &a.SessionID, &a.BookSource, &a.QuestionCount, &a.CorrectCount, &a.GradedAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
