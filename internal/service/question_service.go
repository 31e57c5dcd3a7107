package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookquiz/bookquiz-backend/internal/model"
	"github.com/bookquiz/bookquiz-backend/internal/repository"
)

// ErrInvalidDocument wraps document invariant violations so handlers can
// distinguish them from storage failures.
var ErrInvalidDocument = errors.New("invalid question document")

// QuestionService handles question document ingestion and lookup.
type QuestionService struct {
	questionRepo *repository.QuestionRepository
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questionRepo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{questionRepo: questionRepo}
}

// Put validates and stores a document, replacing any previous version.
func (s *QuestionService) Put(ctx context.Context, doc *model.QuestionDocument) error {
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDocument, err)
	}
	return s.questionRepo.Put(ctx, doc)
}

// Get retrieves a single document.
func (s *QuestionService) Get(ctx context.Context, bookSource, questionID string) (*model.QuestionDocument, error) {
	return s.questionRepo.Get(ctx, bookSource, questionID)
}

// Delete removes a document; deleting an absent document succeeds.
func (s *QuestionService) Delete(ctx context.Context, bookSource, questionID string) error {
	return s.questionRepo.Delete(ctx, bookSource, questionID)
}

// ListBook collects up to limit documents of a book, optionally filtered by
// category, in question_id order. A non-positive limit falls back to 50;
// the ceiling is 500.
func (s *QuestionService) ListBook(ctx context.Context, bookSource, category string, limit int) ([]model.QuestionDocument, error) {
	if limit < 1 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}

	it := s.questionRepo.List(ctx, bookSource, category)
	docs := make([]model.QuestionDocument, 0, limit)
	for len(docs) < limit {
		doc, err := it.Next(ctx)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			break
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}
