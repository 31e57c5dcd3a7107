package model

import (
	"strings"
	"testing"
)

func validDoc() *QuestionDocument {
	return &QuestionDocument{
		QuestionID: "RC001",
		BookSource: BookReadableCode,
		Category:   "readability",
		Question:   "Which statement best describes meaningful names?",
		Options: []Option{
			{ID: "A", Text: "They keep the code consistent."},
			{ID: "B", Text: "They should be chosen before simplifying."},
			{ID: "C", Text: "They matter most in large projects."},
			{ID: "D", Text: "They can be overdone."},
		},
		CorrectAnswer: "A",
		Explanation:   Explanation{Explanation: "Names carry intent."},
	}
}

func TestQuestionDocumentValidate(t *testing.T) {
	if err := validDoc().Validate(); err != nil {
		t.Fatalf("valid document rejected: %v", err)
	}
}

func TestQuestionDocumentValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*QuestionDocument)
		wantSub string
	}{
		{
			name:    "missing question id",
			mutate:  func(d *QuestionDocument) { d.QuestionID = "" },
			wantSub: "questionId",
		},
		{
			name:    "unknown book source",
			mutate:  func(d *QuestionDocument) { d.BookSource = "mystery_novel" },
			wantSub: "bookSource",
		},
		{
			name:    "both is not storable",
			mutate:  func(d *QuestionDocument) { d.BookSource = BookBoth },
			wantSub: "bookSource",
		},
		{
			name:    "missing prompt",
			mutate:  func(d *QuestionDocument) { d.Question = "" },
			wantSub: "question text",
		},
		{
			name:    "no options",
			mutate:  func(d *QuestionDocument) { d.Options = nil },
			wantSub: "option",
		},
		{
			name:    "empty option id",
			mutate:  func(d *QuestionDocument) { d.Options[1].ID = "" },
			wantSub: "option id",
		},
		{
			name: "duplicate option id",
			mutate: func(d *QuestionDocument) {
				d.Options[1].ID = "A"
			},
			wantSub: "duplicate option id",
		},
		{
			name:    "correct answer not an option",
			mutate:  func(d *QuestionDocument) { d.CorrectAnswer = "Z" },
			wantSub: "correctAnswer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDoc()
			tt.mutate(doc)
			err := doc.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestDocPathRoundTrip(t *testing.T) {
	path := DocPath(BookReadableCode, "RC001")
	if path != "questions/readable_code/RC001.json" {
		t.Fatalf("unexpected path %q", path)
	}

	book, id, err := ParseDocPath(path)
	if err != nil {
		t.Fatalf("ParseDocPath(%q): %v", path, err)
	}
	if book != BookReadableCode || id != "RC001" {
		t.Errorf("got (%q, %q), want (%q, %q)", book, id, BookReadableCode, "RC001")
	}
}

func TestParseDocPathRejections(t *testing.T) {
	bad := []string{
		"RC001.json",
		"questions/RC001.json",
		"questions/readable_code/RC001",
		"questions/readable_code/.json",
		"answers/readable_code/RC001.json",
		"questions/readable_code/nested/RC001.json",
	}
	for _, p := range bad {
		if _, _, err := ParseDocPath(p); err == nil {
			t.Errorf("ParseDocPath(%q) unexpectedly succeeded", p)
		}
	}
}
