package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studysphere/study-service/internal/auth"
	"github.com/studysphere/study-service/internal/models"
	"github.com/studysphere/study-service/internal/services"
	"github.com/studysphere/study-service/internal/utils"
)

type QuizHandler struct {
	BaseHandler
	quizService   services.QuizService
	exportService services.ExportService
	validator     *utils.Validator
}

type QuizRequest struct {
	Context string              `json:"context" validate:"required"`
	Answers []models.QuizAnswer `json:"answers"`
}

func NewQuizHandler(
	quizService services.QuizService,
	exportService services.ExportService,
	validator *utils.Validator,
	logger utils.Logger,
) *QuizHandler {
	return &QuizHandler{
		BaseHandler:   NewBaseHandler(logger),
		quizService:   quizService,
		exportService: exportService,
		validator:     validator,
	}
}

// Quiz dispatches on the presence of answers: a request without answers
// opens a new quiz session, one with answers scores and closes the current
// session.
func (h *QuizHandler) Quiz(c *gin.Context) {
	var req QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid or missing JSON data"})
		return
	}

	req.Context = utils.SanitizeInput(req.Context)
	if err := h.validator.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Context or topic is required"})
		return
	}

	userID := auth.UserID(c)

	if len(req.Answers) == 0 {
		h.LogRequest(c, "generating quiz")
		quiz, err := h.quizService.Generate(c.Request.Context(), userID, req.Context)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, quiz)
		return
	}

	h.LogRequest(c, "scoring quiz", "answer_count", len(req.Answers))
	result, err := h.quizService.Score(c.Request.Context(), userID, req.Answers)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Export renders a scored result as an xlsx download.
func (h *QuizHandler) Export(c *gin.Context) {
	var result models.QuizResult
	if err := c.ShouldBindJSON(&result); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid or missing JSON data"})
		return
	}

	h.LogRequest(c, "exporting quiz results", "result_count", len(result.Results))

	workbook, err := h.exportService.ResultsWorkbook(&result)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	buf, err := workbook.WriteToBuffer()
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("quiz-results-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
