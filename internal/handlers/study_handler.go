package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studysphere/study-service/internal/extract"
	"github.com/studysphere/study-service/internal/services"
	"github.com/studysphere/study-service/internal/utils"
)

type StudyHandler struct {
	BaseHandler
	studyService services.StudyService
	extractor    *extract.Extractor
	validator    *utils.Validator
}

type AskRequest struct {
	Question string `json:"question" validate:"required"`
}

func NewStudyHandler(
	studyService services.StudyService,
	extractor *extract.Extractor,
	validator *utils.Validator,
	logger utils.Logger,
) *StudyHandler {
	return &StudyHandler{
		BaseHandler:  NewBaseHandler(logger),
		studyService: studyService,
		extractor:    extractor,
		validator:    validator,
	}
}

// OCR extracts the text of an uploaded document and summarizes it. The
// summary degrades to a sentinel string when the model is unavailable; the
// extracted text is always real.
func (h *StudyHandler) OCR(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No file provided"})
		return
	}

	h.LogRequest(c, "processing uploaded document", "filename", fileHeader.Filename)

	file, err := fileHeader.Open()
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	text, err := h.extractor.Extract(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	summary, err := h.studyService.Summarize(c.Request.Context(), text)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": text, "summary": summary})
}

// Ask answers a free-text study question.
func (h *StudyHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid or missing JSON data"})
		return
	}

	req.Question = utils.SanitizeInput(req.Question)
	if err := h.validator.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Question is required"})
		return
	}

	h.LogRequest(c, "answering question")

	answer, err := h.studyService.Answer(c.Request.Context(), req.Question)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
