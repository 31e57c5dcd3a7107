package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bookquiz/bookquiz-backend/internal/model"
	"github.com/bookquiz/bookquiz-backend/internal/repository"
	"github.com/bookquiz/bookquiz-backend/internal/response"
	"github.com/bookquiz/bookquiz-backend/internal/service"
	"github.com/bookquiz/bookquiz-backend/internal/validator"
)

// QuestionHandler handles question document management endpoints.
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// PutQuestion godoc
// PUT /api/v1/admin/questions/:book_source/:question_id
// Stores a full question document at the addressed path. Identifiers in the
// body, when present, must agree with the path.
func (h *QuestionHandler) PutQuestion(c *gin.Context) {
	bookSource := c.Param("book_source")
	questionID := c.Param("question_id")
	if !model.IsStorableBook(bookSource) {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidBookSource)
		return
	}

	var doc model.QuestionDocument
	if fields := validator.Bind(c, &doc); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if doc.BookSource == "" {
		doc.BookSource = bookSource
	}
	if doc.QuestionID == "" {
		doc.QuestionID = questionID
	}
	if doc.BookSource != bookSource || doc.QuestionID != questionID {
		response.Fail(c, http.StatusBadRequest, response.ErrDocumentIDMismatch)
		return
	}

	if err := h.questionService.Put(c.Request.Context(), &doc); err != nil {
		if errors.Is(err, service.ErrInvalidDocument) {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidDocument,
				map[string]string{"detail": err.Error()})
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"path": model.DocPath(bookSource, questionID)})
}

// GetQuestion godoc
// GET /api/v1/admin/questions/:book_source/:question_id
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	bookSource := c.Param("book_source")
	questionID := c.Param("question_id")

	doc, err := h.questionService.Get(c.Request.Context(), bookSource, questionID)
	if err != nil {
		if errors.Is(err, repository.ErrDocNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"question": doc})
}

// ListQuestions godoc
// GET /api/v1/admin/questions/:book_source?category=&limit=
// Lists documents of one book in question_id order.
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	bookSource := c.Param("book_source")
	if !model.IsStorableBook(bookSource) {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidBookSource)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	category := c.Query("category")

	docs, err := h.questionService.ListBook(c.Request.Context(), bookSource, category, limit)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if docs == nil {
		docs = []model.QuestionDocument{}
	}

	response.Success(c, http.StatusOK, gin.H{"questions": docs, "count": len(docs)})
}

// DeleteQuestion godoc
// DELETE /api/v1/admin/questions/:book_source/:question_id
// Idempotent: deleting an absent document succeeds.
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	bookSource := c.Param("book_source")
	questionID := c.Param("question_id")

	if err := h.questionService.Delete(c.Request.Context(), bookSource, questionID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": model.DocPath(bookSource, questionID)})
}
