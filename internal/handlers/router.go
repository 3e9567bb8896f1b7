package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studysphere/study-service/internal/auth"
	"github.com/studysphere/study-service/internal/extract"
	"github.com/studysphere/study-service/internal/services"
	"github.com/studysphere/study-service/internal/utils"
)

type HandlerManager struct {
	authHandler  *AuthHandler
	studyHandler *StudyHandler
	quizHandler  *QuizHandler
	tokens       *auth.TokenManager
}

func NewHandlerManager(
	authService services.AuthService,
	studyService services.StudyService,
	quizService services.QuizService,
	exportService services.ExportService,
	extractor *extract.Extractor,
	tokens *auth.TokenManager,
	validator *utils.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:  NewAuthHandler(authService, validator, logger),
		studyHandler: NewStudyHandler(studyService, extractor, validator, logger),
		quizHandler:  NewQuizHandler(quizService, exportService, validator, logger),
		tokens:       tokens,
	}
}

// SetupRoutes registers all API routes.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	router.POST("/register", hm.authHandler.Register)
	router.POST("/login", hm.authHandler.Login)

	protected := router.Group("/")
	protected.Use(auth.Middleware(hm.tokens))
	{
		protected.POST("/ocr", hm.studyHandler.OCR)
		protected.POST("/ask", hm.studyHandler.Ask)
		protected.POST("/quiz", hm.quizHandler.Quiz)
		protected.POST("/quiz/export", hm.quizHandler.Export)
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "study-service",
		"timestamp": time.Now(),
	})
}
