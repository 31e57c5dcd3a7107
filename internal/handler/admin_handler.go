package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bookquiz/bookquiz-backend/internal/model"
	"github.com/bookquiz/bookquiz-backend/internal/repository"
	"github.com/bookquiz/bookquiz-backend/internal/response"
)

// AdminHandler handles session inspection and attempt reporting endpoints.
type AdminHandler struct {
	sessionRepo *repository.SessionRepository
	attemptRepo *repository.AttemptRepository
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(sessionRepo *repository.SessionRepository, attemptRepo *repository.AttemptRepository) *AdminHandler {
	return &AdminHandler{sessionRepo: sessionRepo, attemptRepo: attemptRepo}
}

// GetSession godoc
// GET /api/v1/admin/sessions/:session_id
// Returns the raw session state including the answer key.
func (h *AdminHandler) GetSession(c *gin.Context) {
	sessionID := c.Param("session_id")

	sess, err := h.sessionRepo.Read(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": sess})
}

// DeleteSession godoc
// DELETE /api/v1/admin/sessions/:session_id
// Revokes a session early. Idempotent.
func (h *AdminHandler) DeleteSession(c *gin.Context) {
	sessionID := c.Param("session_id")

	if err := h.sessionRepo.Delete(c.Request.Context(), sessionID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": sessionID})
}

// ListAttempts godoc
// GET /api/v1/admin/attempts?limit=
// Lists recently graded attempts, newest first.
func (h *AdminHandler) ListAttempts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}

	attempts, err := h.attemptRepo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if attempts == nil {
		attempts = []model.QuizAttempt{}
	}

	response.Success(c, http.StatusOK, gin.H{"attempts": attempts})
}
