package model

// StartQuizQuery are the query parameters of GET /quiz/questions.
// timeLimit is seconds per question; the response carries the total.
type StartQuizQuery struct {
	BookSource string `form:"bookSource" binding:"required,oneof=readable_code programming_principles both"`
	Count      int    `form:"count" binding:"required,min=1,max=50"`
	TimeLimit  int    `form:"timeLimit" binding:"required,min=10,max=300"`
}

// QuizQuestion is a question as delivered to the client: the answer key and
// explanation are stripped, and options arrive pre-shuffled.
type QuizQuestion struct {
	QuestionID string   `json:"questionId"`
	Question   string   `json:"question"`
	Options    []Option `json:"options"`
}

// StartQuizResponse is the payload of GET /quiz/questions.
type StartQuizResponse struct {
	Questions []QuizQuestion `json:"questions"`
	TimeLimit int            `json:"timeLimit"`
	SessionID string         `json:"sessionId"`
}

// SubmittedAnswer is one user answer. DisplayOrder records the option order
// the user actually saw, so results can be replayed in that order.
type SubmittedAnswer struct {
	QuestionID   string   `json:"questionId" binding:"required"`
	Answer       string   `json:"answer" binding:"required"`
	DisplayOrder []string `json:"displayOrder" binding:"required"`
}

// GradeRequest is the body of POST /quiz/answers. Answers is a pointer so
// that an explicitly empty list is accepted while a missing field is not.
type GradeRequest struct {
	SessionID string             `json:"sessionId" binding:"required"`
	Answers   *[]SubmittedAnswer `json:"answers" binding:"required,dive"`
}

// AnswerResult is the graded outcome of one submitted answer.
type AnswerResult struct {
	QuestionID    string   `json:"questionId"`
	Category      string   `json:"category,omitempty"`
	IsCorrect     bool     `json:"isCorrect"`
	UserAnswer    string   `json:"userAnswer"`
	CorrectAnswer string   `json:"correctAnswer"`
	Question      string   `json:"question"`
	Options       []Option `json:"options"`
	Explanation   string   `json:"explanation,omitempty"`
	DisplayOrder  []string `json:"displayOrder"`
}

// GradeResponse is the payload of POST /quiz/answers.
type GradeResponse struct {
	Results []AnswerResult `json:"results"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Admin is an operator account allowed to manage question documents.
type Admin struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}
