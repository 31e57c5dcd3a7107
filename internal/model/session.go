package model

import "time"

// SessionProblem is the per-question snapshot kept in a quiz session: the
// answer key plus everything needed to render the graded result later.
type SessionProblem struct {
	QuestionID    string   `json:"questionId"`
	CorrectAnswer string   `json:"correctAnswer"`
	Category      string   `json:"category,omitempty"`
	Question      string   `json:"question"`
	Options       []Option `json:"options"`
	Explanation   string   `json:"explanation,omitempty"`
}

// QuizSession is the state of one quiz attempt, stored under its session id.
// TTL is an epoch timestamp; the store expires the record on its own, but
// because that deletion may lag, readers must treat an elapsed TTL as absent.
type QuizSession struct {
	BookSource string                    `json:"bookSource,omitempty"`
	Problems   map[string]SessionProblem `json:"problems"`
	TTL        int64                     `json:"ttl"`
}

// ExpiredAt reports whether the session's TTL has elapsed at the given time.
// A zero TTL means the session never expires.
func (s *QuizSession) ExpiredAt(now time.Time) bool {
	return s.TTL > 0 && now.Unix() >= s.TTL
}

// QuizAttempt is the compact summary of a graded quiz, persisted
// asynchronously for reporting.
type QuizAttempt struct {
	ID            int64     `json:"id,omitempty"`
	SessionID     string    `json:"session_id"`
	BookSource    string    `json:"book_source"`
	QuestionCount int       `json:"question_count"`
	CorrectCount  int       `json:"correct_count"`
	GradedAt      time.Time `json:"graded_at"`
}
