package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bookquiz/bookquiz-backend/internal/model"
	"github.com/bookquiz/bookquiz-backend/internal/repository"
)

// Quiz flow errors.
var (
	ErrNoQuestions     = errors.New("no questions available")
	ErrSessionNotFound = errors.New("session not found or expired")
)

// QuestionSource is the read surface of the question repository the quiz
// flow needs.
type QuestionSource interface {
	ListIDs(ctx context.Context, bookSource string) ([]string, error)
	GetMany(ctx context.Context, bookSource string, questionIDs []string) ([]model.QuestionDocument, error)
}

// SessionStore is the session store contract the quiz flow needs.
type SessionStore interface {
	Create(ctx context.Context, sessionID string, sess *model.QuizSession) error
	Read(ctx context.Context, sessionID string) (*model.QuizSession, error)
	Delete(ctx context.Context, sessionID string) error
}

// AttemptSink receives graded attempt summaries for asynchronous persistence.
type AttemptSink interface {
	Enqueue(ctx context.Context, a model.QuizAttempt) error
}

// QuizService runs the quiz lifecycle: question selection and session
// creation on start, answer grading on submit.
type QuizService struct {
	questions  QuestionSource
	sessions   SessionStore
	attempts   AttemptSink // optional, nil disables attempt persistence
	sessionTTL time.Duration
	log        zerolog.Logger
}

// NewQuizService creates a new QuizService.
func NewQuizService(questions QuestionSource, sessions SessionStore, attempts AttemptSink, sessionTTL time.Duration, log zerolog.Logger) *QuizService {
	return &QuizService{
		questions:  questions,
		sessions:   sessions,
		attempts:   attempts,
		sessionTTL: sessionTTL,
		log:        log.With().Str("component", "quiz_service").Logger(),
	}
}

// StartQuiz samples up to count questions from the requested book source
// ("both" merges the two books), shuffles each question's options, creates a
// session holding the answer key, and returns the client-facing paper.
// The response timeLimit is perQuestionSeconds times the questions delivered.
func (s *QuizService) StartQuiz(ctx context.Context, bookSource string, count, perQuestionSeconds int) (*model.StartQuizResponse, error) {
	docs, err := s.sampleQuestions(ctx, bookSource, count)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNoQuestions
	}

	sessionID := "sess_" + uuid.New().String()

	questions := make([]model.QuizQuestion, len(docs))
	problems := make(map[string]model.SessionProblem, len(docs))
	for i, doc := range docs {
		opts := shuffledOptions(doc.Options)
		questions[i] = model.QuizQuestion{
			QuestionID: doc.QuestionID,
			Question:   doc.Question,
			Options:    opts,
		}
		problems[doc.QuestionID] = model.SessionProblem{
			QuestionID:    doc.QuestionID,
			CorrectAnswer: doc.CorrectAnswer,
			Category:      doc.Category,
			Question:      doc.Question,
			Options:       opts,
			Explanation:   doc.Explanation.Explanation,
		}
	}

	sess := &model.QuizSession{
		BookSource: bookSource,
		Problems:   problems,
		TTL:        time.Now().Add(s.sessionTTL).Unix(),
	}
	if err := s.sessions.Create(ctx, sessionID, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &model.StartQuizResponse{
		Questions: questions,
		TimeLimit: perQuestionSeconds * len(questions),
		SessionID: sessionID,
	}, nil
}

// GradeQuiz grades the submitted answers against the session's answer key.
// Answers for question ids the session does not know are skipped; duplicate
// ids are each graded; an answer matching no option id is simply incorrect.
func (s *QuizService) GradeQuiz(ctx context.Context, sessionID string, answers []model.SubmittedAnswer) ([]model.AnswerResult, error) {
	sess, err := s.sessions.Read(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	results := gradeAnswers(answers, sess)

	if s.attempts != nil {
		attempt := summarize(sessionID, sess, results)
		if err := s.attempts.Enqueue(ctx, attempt); err != nil {
			// Reporting is best-effort; grading already succeeded.
			s.log.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to enqueue attempt summary")
		}
	}

	return results, nil
}

// gradeAnswers applies the grading rules to one submission.
func gradeAnswers(answers []model.SubmittedAnswer, sess *model.QuizSession) []model.AnswerResult {
	results := make([]model.AnswerResult, 0, len(answers))
	for _, a := range answers {
		p, ok := sess.Problems[a.QuestionID]
		if !ok {
			continue
		}
		results = append(results, model.AnswerResult{
			QuestionID:    p.QuestionID,
			Category:      p.Category,
			IsCorrect:     a.Answer == p.CorrectAnswer,
			UserAnswer:    a.Answer,
			CorrectAnswer: p.CorrectAnswer,
			Question:      p.Question,
			Options:       p.Options,
			Explanation:   p.Explanation,
			DisplayOrder:  a.DisplayOrder,
		})
	}
	return results
}

func summarize(sessionID string, sess *model.QuizSession, results []model.AnswerResult) model.QuizAttempt {
	correct := 0
	for _, r := range results {
		if r.IsCorrect {
			correct++
		}
	}
	return model.QuizAttempt{
		SessionID:     sessionID,
		BookSource:    sess.BookSource,
		QuestionCount: len(sess.Problems),
		CorrectCount:  correct,
		GradedAt:      time.Now(),
	}
}

// sampleQuestions picks up to count documents at random, without replacement,
// from the requested source. Fewer matches than count is not an error; the
// caller receives what exists.
func (s *QuizService) sampleQuestions(ctx context.Context, bookSource string, count int) ([]model.QuestionDocument, error) {
	books := []string{bookSource}
	if bookSource == model.BookBoth {
		books = model.Books
	}

	type ref struct{ book, id string }
	var refs []ref
	for _, book := range books {
		ids, err := s.questions.ListIDs(ctx, book)
		if err != nil {
			return nil, fmt.Errorf("list questions for %s: %w", book, err)
		}
		for _, id := range ids {
			refs = append(refs, ref{book: book, id: id})
		}
	}
	if len(refs) == 0 {
		return nil, nil
	}

	rand.Shuffle(len(refs), func(i, j int) { refs[i], refs[j] = refs[j], refs[i] })
	if count < len(refs) {
		refs = refs[:count]
	}

	picked := make(map[string][]string)
	for _, r := range refs {
		picked[r.book] = append(picked[r.book], r.id)
	}

	byKey := make(map[string]model.QuestionDocument)
	for book, ids := range picked {
		docs, err := s.questions.GetMany(ctx, book, ids)
		if err != nil {
			return nil, fmt.Errorf("load questions for %s: %w", book, err)
		}
		for _, d := range docs {
			byKey[d.BookSource+"/"+d.QuestionID] = d
		}
	}

	// Preserve the sampled order.
	out := make([]model.QuestionDocument, 0, len(refs))
	for _, r := range refs {
		if d, ok := byKey[r.book+"/"+r.id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

// shuffledOptions returns a shuffled copy; the option set is preserved.
func shuffledOptions(opts []model.Option) []model.Option {
	out := make([]model.Option, len(opts))
	copy(out, opts)
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
