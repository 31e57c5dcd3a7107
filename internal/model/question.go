package model

import (
	"errors"
	"fmt"
	"strings"
)

// Book sources recognized by the question repository. "both" is a request-time
// pseudo source that merges the two books; documents are never stored under it.
const (
	BookReadableCode          = "readable_code"
	BookProgrammingPrinciples = "programming_principles"
	BookBoth                  = "both"
)

// Books lists the real (storable) book sources.
var Books = []string{BookReadableCode, BookProgrammingPrinciples}

// IsStorableBook reports whether s names a book documents can live under.
func IsStorableBook(s string) bool {
	return s == BookReadableCode || s == BookProgrammingPrinciples
}

// Option is one candidate answer of a question.
type Option struct {
	ID   string `json:"id" binding:"required"`
	Text string `json:"text" binding:"required"`
}

// Resource is an additional reference attached to an explanation.
type Resource struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Explanation holds the post-answer commentary of a question.
type Explanation struct {
	Explanation         string     `json:"explanation"`
	ReferencePages      string     `json:"referencePages,omitempty"`
	AdditionalResources []Resource `json:"additionalResources,omitempty"`
}

// QuestionDocument is one self-contained quiz question as stored in the
// repository. Documents are immutable once published; updates are full
// replacements.
type QuestionDocument struct {
	QuestionID    string      `json:"questionId"`
	BookSource    string      `json:"bookSource"`
	Category      string      `json:"category,omitempty"`
	Question      string      `json:"question"`
	Options       []Option    `json:"options"`
	CorrectAnswer string      `json:"correctAnswer"`
	Explanation   Explanation `json:"explanation"`
}

// Validate checks the document invariants: identifiers and prompt present,
// option ids unique, and correctAnswer referencing an existing option.
func (d *QuestionDocument) Validate() error {
	if d.QuestionID == "" {
		return errors.New("questionId is required")
	}
	if !IsStorableBook(d.BookSource) {
		return fmt.Errorf("bookSource %q is not a known book", d.BookSource)
	}
	if d.Question == "" {
		return errors.New("question text is required")
	}
	if len(d.Options) == 0 {
		return errors.New("at least one option is required")
	}

	seen := make(map[string]bool, len(d.Options))
	for _, o := range d.Options {
		if o.ID == "" {
			return errors.New("option id must not be empty")
		}
		if seen[o.ID] {
			return fmt.Errorf("duplicate option id %q", o.ID)
		}
		seen[o.ID] = true
	}

	if !seen[d.CorrectAnswer] {
		return fmt.Errorf("correctAnswer %q does not match any option id", d.CorrectAnswer)
	}
	return nil
}

// DocPath returns the canonical storage path of a document,
// questions/{bookSource}/{questionId}.json.
func DocPath(bookSource, questionID string) string {
	return fmt.Sprintf("questions/%s/%s.json", bookSource, questionID)
}

// ParseDocPath splits a canonical document path back into its book source and
// question id. The path separator is always "/", independent of the host OS.
func ParseDocPath(path string) (bookSource, questionID string, err error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 || parts[0] != "questions" {
		return "", "", fmt.Errorf("path %q does not match questions/{bookSource}/{questionId}.json", path)
	}
	name, ok := strings.CutSuffix(parts[2], ".json")
	if !ok || name == "" || parts[1] == "" {
		return "", "", fmt.Errorf("path %q does not match questions/{bookSource}/{questionId}.json", path)
	}
	return parts[1], name, nil
}
