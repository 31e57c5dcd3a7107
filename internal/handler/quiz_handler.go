package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookquiz/bookquiz-backend/internal/model"
	"github.com/bookquiz/bookquiz-backend/internal/response"
	"github.com/bookquiz/bookquiz-backend/internal/service"
	"github.com/bookquiz/bookquiz-backend/internal/validator"
)

// QuizHandler handles the public quiz endpoints.
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// GetQuestions godoc
// GET /api/v1/quiz/questions?bookSource=&count=&timeLimit=
// Starts a quiz: samples questions, creates a session, returns the paper.
func (h *QuizHandler) GetQuestions(c *gin.Context) {
	var q model.StartQuizQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, validator.TranslateErrors(err))
		return
	}

	resp, err := h.quizService.StartQuiz(c.Request.Context(), q.BookSource, q.Count, q.TimeLimit)
	if err != nil {
		if errors.Is(err, service.ErrNoQuestions) {
			response.Fail(c, http.StatusNotFound, response.ErrNoQuestions)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// SubmitAnswers godoc
// POST /api/v1/quiz/answers
// Grades a submission against its session's answer key.
func (h *QuizHandler) SubmitAnswers(c *gin.Context) {
	var req model.GradeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	results, err := h.quizService.GradeQuiz(c.Request.Context(), req.SessionID, *req.Answers)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if results == nil {
		results = []model.AnswerResult{}
	}

	response.Success(c, http.StatusOK, model.GradeResponse{Results: results})
}
