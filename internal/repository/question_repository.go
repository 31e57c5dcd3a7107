package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookquiz/bookquiz-backend/internal/model"
)

// ErrDocNotFound is returned when no document exists at the requested path.
var ErrDocNotFound = errors.New("question document not found")

// QuestionRepository stores question documents in PostgreSQL, keyed by
// (book_source, question_id) with the full document as JSONB. Writes are
// whole-document upserts; there is no partial patching.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// Get retrieves a single document.
func (r *QuestionRepository) Get(ctx context.Context, bookSource, questionID string) (*model.QuestionDocument, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT doc FROM question_documents WHERE book_source = $1 AND question_id = $2`,
		bookSource, questionID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDocNotFound
		}
		return nil, err
	}

	var doc model.QuestionDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document %s/%s: %w", bookSource, questionID, err)
	}
	return &doc, nil
}

// GetMany retrieves the documents of one book matching the given ids.
// Missing ids are silently omitted from the result.
func (r *QuestionRepository) GetMany(ctx context.Context, bookSource string, questionIDs []string) ([]model.QuestionDocument, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT doc FROM question_documents
		 WHERE book_source = $1 AND question_id = ANY($2)
		 ORDER BY question_id`,
		bookSource, questionIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []model.QuestionDocument
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var doc model.QuestionDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// ListIDs returns all question ids of a book, ordered.
func (r *QuestionRepository) ListIDs(ctx context.Context, bookSource string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT question_id FROM question_documents WHERE book_source = $1 ORDER BY question_id`,
		bookSource,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Put stores a document, replacing any previous version at the same path.
func (r *QuestionRepository) Put(ctx context.Context, doc *model.QuestionDocument) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO question_documents (book_source, question_id, category, doc)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (book_source, question_id)
		 DO UPDATE SET category = EXCLUDED.category, doc = EXCLUDED.doc, updated_at = now()`,
		doc.BookSource, doc.QuestionID, doc.Category, raw,
	)
	return err
}

// Delete removes a document. Deleting an absent document is not an error.
func (r *QuestionRepository) Delete(ctx context.Context, bookSource, questionID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM question_documents WHERE book_source = $1 AND question_id = $2`,
		bookSource, questionID,
	)
	return err
}

// List returns a lazy iterator over the documents of a book, optionally
// filtered by category. The iterator pages through the table with keyset
// batches; calling List again restarts from the beginning.
func (r *QuestionRepository) List(ctx context.Context, bookSource, category string) *DocumentIterator {
	return &DocumentIterator{
		pool:       r.pool,
		bookSource: bookSource,
		category:   category,
		batchSize:  100,
	}
}

// DocumentIterator walks question documents in question_id order.
type DocumentIterator struct {
	pool       *pgxpool.Pool
	bookSource string
	category   string
	batchSize  int

	afterID string
	buf     []model.QuestionDocument
	pos     int
	done    bool
}

// Next returns the next document, or (nil, nil) once the sequence is
// exhausted.
func (it *DocumentIterator) Next(ctx context.Context) (*model.QuestionDocument, error) {
	if it.pos >= len(it.buf) {
		if it.done {
			return nil, nil
		}
		if err := it.fetch(ctx); err != nil {
			return nil, err
		}
		if len(it.buf) == 0 {
			return nil, nil
		}
	}

	doc := &it.buf[it.pos]
	it.pos++
	it.afterID = doc.QuestionID
	return doc, nil
}

func (it *DocumentIterator) fetch(ctx context.Context) error {
	rows, err := it.pool.Query(ctx,
		`SELECT doc FROM question_documents
		 WHERE book_source = $1
		   AND ($2 = '' OR category = $2)
		   AND question_id > $3
		 ORDER BY question_id
		 LIMIT $4`,
		it.bookSource, it.category, it.afterID, it.batchSize,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	it.buf = it.buf[:0]
	it.pos = 0
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return err
		}
		var doc model.QuestionDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("decode document: %w", err)
		}
		it.buf = append(it.buf, doc)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if len(it.buf) < it.batchSize {
		it.done = true
	}
	return nil
}
