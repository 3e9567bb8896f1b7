package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/studysphere/study-service/internal/utils"
)

// ErrorResponse is the uniform error body. The message is the client-facing
// error text.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse carries a plain confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// BaseHandler provides shared logging for all handlers.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"remote_addr", c.ClientIP(),
	}
	if userID, exists := c.Get("user_id"); exists {
		fields = append(fields, "user_id", userID)
	}
	fields = append(fields, additionalFields...)

	h.logger.Info(message, fields...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	if userID, exists := c.Get("user_id"); exists {
		fields = append(fields, "user_id", userID)
	}
	fields = append(fields, additionalFields...)

	h.logger.LogError(err, message, fields...)
}
