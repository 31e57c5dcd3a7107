package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/bookquiz/bookquiz-backend/internal/config"
	"github.com/bookquiz/bookquiz-backend/internal/handler"
	"github.com/bookquiz/bookquiz-backend/internal/middleware"
	"github.com/bookquiz/bookquiz-backend/internal/response"
	"github.com/bookquiz/bookquiz-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Quiz     *handler.QuizHandler
	Question *handler.QuestionHandler
	Admin    *handler.AdminHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for the public quiz routes (60 requests per minute per IP).
	quizLimiter := middleware.NewRateLimiter(60, time.Minute)

	// ─── 1. Quiz Group (Public, Rate Limited) ──────────────────────────
	quiz := router.Group("/api/v1/quiz")
	quiz.Use(quizLimiter.Middleware())
	{
		quiz.GET("/questions", handlers.Quiz.GetQuestions)
		quiz.POST("/answers", handlers.Quiz.SubmitAnswers)
	}

	// ─── 2. Auth Group (Public) ────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", handlers.Auth.Login)
	}

	// ─── 3. Admin Group (JWT) ──────────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		// Question document management. Documents are immutable once
		// published, so reads can be cached aggressively.
		adminAPI.GET("/questions/:book_source",
			handlers.Question.ListQuestions,
		)
		adminAPI.GET("/questions/:book_source/:question_id",
			middleware.CacheControl(3600),
			handlers.Question.GetQuestion,
		)
		adminAPI.PUT("/questions/:book_source/:question_id",
			handlers.Question.PutQuestion,
		)
		adminAPI.DELETE("/questions/:book_source/:question_id",
			handlers.Question.DeleteQuestion,
		)

		// Session inspection
		adminAPI.GET("/sessions/:session_id", handlers.Admin.GetSession)
		adminAPI.DELETE("/sessions/:session_id", handlers.Admin.DeleteSession)

		// Attempt reporting
		adminAPI.GET("/attempts", handlers.Admin.ListAttempts)
	}

	return router
}
