package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studysphere/study-service/internal/extract"
	"github.com/studysphere/study-service/internal/services"
)

// handleServiceError maps service and extractor errors to HTTP status codes
// in one place. Unclassified errors surface as 500 with the error text
// echoed to the client, which mirrors the original behavior; that echo is a
// known information-disclosure concern.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := err.Error()

	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrUserExists),
		errors.Is(err, services.ErrEmptyContext),
		errors.Is(err, services.ErrNoActiveSession):
		status = http.StatusBadRequest
	case errors.Is(err, extract.ErrNoContent):
		status = http.StatusBadRequest
		message = "No text extracted from file"
	case errors.Is(err, extract.ErrUnsupportedFormat):
		status = http.StatusBadRequest
		message = "Unsupported file format. Use JPG, PNG, PDF, PPT, or PPTX"
	case errors.Is(err, services.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrInvalidLLMResponse):
		status = http.StatusInternalServerError
	}

	h.LogError(c, err, "request failed", "status_code", status)
	c.JSON(status, ErrorResponse{Error: message})
}
