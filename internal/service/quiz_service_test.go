package service

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookquiz/bookquiz-backend/internal/model"
	"github.com/bookquiz/bookquiz-backend/internal/repository"
)

type fakeQuestionSource struct {
	docs map[string][]model.QuestionDocument
}

func (f *fakeQuestionSource) ListIDs(_ context.Context, bookSource string) ([]string, error) {
	ids := make([]string, 0, len(f.docs[bookSource]))
	for _, d := range f.docs[bookSource] {
		ids = append(ids, d.QuestionID)
	}
	return ids, nil
}

func (f *fakeQuestionSource) GetMany(_ context.Context, bookSource string, questionIDs []string) ([]model.QuestionDocument, error) {
	want := make(map[string]bool, len(questionIDs))
	for _, id := range questionIDs {
		want[id] = true
	}
	var out []model.QuestionDocument
	for _, d := range f.docs[bookSource] {
		if want[d.QuestionID] {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeSessionStore struct {
	sessions  map[string]*model.QuizSession
	createErr error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*model.QuizSession)}
}

func (f *fakeSessionStore) Create(_ context.Context, sessionID string, sess *model.QuizSession) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.sessions[sessionID]; ok {
		return repository.ErrSessionExists
	}
	f.sessions[sessionID] = sess
	return nil
}

func (f *fakeSessionStore) Read(_ context.Context, sessionID string) (*model.QuizSession, error) {
	sess, ok := f.sessions[sessionID]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	return sess, nil
}

func (f *fakeSessionStore) Delete(_ context.Context, sessionID string) error {
	delete(f.sessions, sessionID)
	return nil
}

type fakeAttemptSink struct {
	attempts []model.QuizAttempt
	err      error
}

func (f *fakeAttemptSink) Enqueue(_ context.Context, a model.QuizAttempt) error {
	if f.err != nil {
		return f.err
	}
	f.attempts = append(f.attempts, a)
	return nil
}

func makeDoc(book, id, correct string) model.QuestionDocument {
	return model.QuestionDocument{
		QuestionID: id,
		BookSource: book,
		Category:   "naming",
		Question:   "Prompt for " + id,
		Options: []model.Option{
			{ID: "A", Text: "first"},
			{ID: "B", Text: "second"},
			{ID: "C", Text: "third"},
			{ID: "D", Text: "fourth"},
		},
		CorrectAnswer: correct,
		Explanation:   model.Explanation{Explanation: "Because " + id},
	}
}

func optionIDs(opts []model.Option) []string {
	ids := make([]string, len(opts))
	for i, o := range opts {
		ids[i] = o.ID
	}
	sort.Strings(ids)
	return ids
}

func newTestService(src *fakeQuestionSource, store *fakeSessionStore, sink AttemptSink) *QuizService {
	return NewQuizService(src, store, sink, time.Hour, zerolog.Nop())
}

func TestStartQuiz(t *testing.T) {
	src := &fakeQuestionSource{docs: map[string][]model.QuestionDocument{
		model.BookReadableCode: {
			makeDoc(model.BookReadableCode, "RC001", "A"),
			makeDoc(model.BookReadableCode, "RC002", "B"),
			makeDoc(model.BookReadableCode, "RC003", "C"),
			makeDoc(model.BookReadableCode, "RC004", "D"),
		},
	}}
	store := newFakeSessionStore()
	svc := newTestService(src, store, nil)

	resp, err := svc.StartQuiz(context.Background(), model.BookReadableCode, 3, 30)
	if err != nil {
		t.Fatalf("StartQuiz: %v", err)
	}

	if len(resp.Questions) != 3 {
		t.Fatalf("got %d questions, want 3", len(resp.Questions))
	}
	if resp.TimeLimit != 90 {
		t.Errorf("TimeLimit = %d, want 90", resp.TimeLimit)
	}
	if !strings.HasPrefix(resp.SessionID, "sess_") {
		t.Errorf("SessionID %q lacks sess_ prefix", resp.SessionID)
	}

	sess, ok := store.sessions[resp.SessionID]
	if !ok {
		t.Fatal("session was not stored")
	}
	if sess.BookSource != model.BookReadableCode {
		t.Errorf("session BookSource = %q", sess.BookSource)
	}
	if len(sess.Problems) != 3 {
		t.Errorf("session holds %d problems, want 3", len(sess.Problems))
	}
	if sess.TTL <= time.Now().Unix() {
		t.Errorf("session TTL %d is not in the future", sess.TTL)
	}

	// Shuffling must preserve the option set, and the answer key must stay
	// out of the client-facing questions.
	for _, q := range resp.Questions {
		got := optionIDs(q.Options)
		want := []string{"A", "B", "C", "D"}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("question %s option ids = %v, want %v", q.QuestionID, got, want)
				break
			}
		}
		p, ok := sess.Problems[q.QuestionID]
		if !ok {
			t.Errorf("question %s missing from session", q.QuestionID)
			continue
		}
		if p.CorrectAnswer == "" {
			t.Errorf("session problem %s lost its answer key", q.QuestionID)
		}
	}
}

func TestStartQuizFewerThanRequested(t *testing.T) {
	src := &fakeQuestionSource{docs: map[string][]model.QuestionDocument{
		model.BookProgrammingPrinciples: {
			makeDoc(model.BookProgrammingPrinciples, "PP001", "A"),
			makeDoc(model.BookProgrammingPrinciples, "PP002", "B"),
		},
	}}
	svc := newTestService(src, newFakeSessionStore(), nil)

	resp, err := svc.StartQuiz(context.Background(), model.BookProgrammingPrinciples, 10, 60)
	if err != nil {
		t.Fatalf("StartQuiz: %v", err)
	}
	if len(resp.Questions) != 2 {
		t.Errorf("got %d questions, want the 2 that exist", len(resp.Questions))
	}
	if resp.TimeLimit != 120 {
		t.Errorf("TimeLimit = %d, want 120 (60s x 2 delivered)", resp.TimeLimit)
	}
}

func TestStartQuizBothMergesBooks(t *testing.T) {
	src := &fakeQuestionSource{docs: map[string][]model.QuestionDocument{
		model.BookReadableCode: {
			makeDoc(model.BookReadableCode, "RC001", "A"),
		},
		model.BookProgrammingPrinciples: {
			makeDoc(model.BookProgrammingPrinciples, "PP001", "B"),
		},
	}}
	svc := newTestService(src, newFakeSessionStore(), nil)

	resp, err := svc.StartQuiz(context.Background(), model.BookBoth, 2, 30)
	if err != nil {
		t.Fatalf("StartQuiz: %v", err)
	}

	got := map[string]bool{}
	for _, q := range resp.Questions {
		got[q.QuestionID] = true
	}
	if !got["RC001"] || !got["PP001"] {
		t.Errorf("merged sample = %v, want both RC001 and PP001", got)
	}
}

func TestStartQuizNoQuestions(t *testing.T) {
	src := &fakeQuestionSource{docs: map[string][]model.QuestionDocument{}}
	svc := newTestService(src, newFakeSessionStore(), nil)

	_, err := svc.StartQuiz(context.Background(), model.BookReadableCode, 5, 30)
	if !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("err = %v, want ErrNoQuestions", err)
	}
}

func gradedSession() *model.QuizSession {
	return &model.QuizSession{
		BookSource: model.BookReadableCode,
		Problems: map[string]model.SessionProblem{
			"RC001": {
				QuestionID:    "RC001",
				CorrectAnswer: "A",
				Category:      "naming",
				Question:      "Prompt for RC001",
				Options:       []model.Option{{ID: "A", Text: "first"}, {ID: "B", Text: "second"}},
				Explanation:   "Because RC001",
			},
			"RC002": {
				QuestionID:    "RC002",
				CorrectAnswer: "B",
				Category:      "formatting",
				Question:      "Prompt for RC002",
				Options:       []model.Option{{ID: "A", Text: "first"}, {ID: "B", Text: "second"}},
				Explanation:   "Because RC002",
			},
		},
		TTL: time.Now().Add(time.Hour).Unix(),
	}
}

func TestGradeQuiz(t *testing.T) {
	store := newFakeSessionStore()
	store.sessions["sess_x"] = gradedSession()
	sink := &fakeAttemptSink{}
	svc := newTestService(&fakeQuestionSource{}, store, sink)

	answers := []model.SubmittedAnswer{
		{QuestionID: "RC001", Answer: "A", DisplayOrder: []string{"A", "B"}}, // correct
		{QuestionID: "RC002", Answer: "A", DisplayOrder: []string{"B", "A"}}, // wrong option
		{QuestionID: "RC999", Answer: "A", DisplayOrder: []string{"A", "B"}}, // unknown, skipped
		{QuestionID: "RC001", Answer: "Z", DisplayOrder: []string{"B", "A"}}, // duplicate, bogus option id
	}

	results, err := svc.GradeQuiz(context.Background(), "sess_x", answers)
	if err != nil {
		t.Fatalf("GradeQuiz: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3 (unknown id skipped)", len(results))
	}

	first := results[0]
	if !first.IsCorrect || first.QuestionID != "RC001" {
		t.Errorf("first result = %+v, want correct RC001", first)
	}
	if !reflect.DeepEqual(first.DisplayOrder, []string{"A", "B"}) {
		t.Errorf("first result displayOrder = %v, want the submitted order echoed", first.DisplayOrder)
	}
	if first.Explanation != "Because RC001" || first.CorrectAnswer != "A" {
		t.Errorf("first result missing review fields: %+v", first)
	}
	if results[1].IsCorrect {
		t.Errorf("RC002 answered A graded correct, key is B")
	}
	last := results[2]
	if last.QuestionID != "RC001" || last.IsCorrect || last.UserAnswer != "Z" {
		t.Errorf("duplicate submission = %+v, want independent incorrect grade", last)
	}
	if !reflect.DeepEqual(last.DisplayOrder, []string{"B", "A"}) {
		t.Errorf("duplicate result displayOrder = %v, want the submitted order echoed", last.DisplayOrder)
	}

	if len(sink.attempts) != 1 {
		t.Fatalf("enqueued %d attempts, want 1", len(sink.attempts))
	}
	a := sink.attempts[0]
	if a.SessionID != "sess_x" || a.BookSource != model.BookReadableCode {
		t.Errorf("attempt = %+v", a)
	}
	if a.QuestionCount != 2 || a.CorrectCount != 1 {
		t.Errorf("attempt counts = %d/%d, want 1 correct of 2 questions", a.CorrectCount, a.QuestionCount)
	}
}

func TestGradeQuizEmptyAnswers(t *testing.T) {
	store := newFakeSessionStore()
	store.sessions["sess_x"] = gradedSession()
	svc := newTestService(&fakeQuestionSource{}, store, nil)

	results, err := svc.GradeQuiz(context.Background(), "sess_x", nil)
	if err != nil {
		t.Fatalf("GradeQuiz: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestGradeQuizSessionMissing(t *testing.T) {
	svc := newTestService(&fakeQuestionSource{}, newFakeSessionStore(), nil)

	_, err := svc.GradeQuiz(context.Background(), "sess_gone", []model.SubmittedAnswer{
		{QuestionID: "RC001", Answer: "A", DisplayOrder: []string{"A", "B"}},
	})
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestGradeQuizEnqueueFailureDoesNotFailGrading(t *testing.T) {
	store := newFakeSessionStore()
	store.sessions["sess_x"] = gradedSession()
	sink := &fakeAttemptSink{err: errors.New("queue down")}
	svc := newTestService(&fakeQuestionSource{}, store, sink)

	results, err := svc.GradeQuiz(context.Background(), "sess_x", []model.SubmittedAnswer{
		{QuestionID: "RC001", Answer: "A", DisplayOrder: []string{"A", "B"}},
	})
	if err != nil {
		t.Fatalf("GradeQuiz: %v", err)
	}
	if len(results) != 1 || !results[0].IsCorrect {
		t.Errorf("results = %+v, want one correct result", results)
	}
}
