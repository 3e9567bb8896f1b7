package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studysphere/study-service/internal/services"
	"github.com/studysphere/study-service/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	authService services.AuthService
	validator   *utils.Validator
}

type CredentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func NewAuthHandler(authService services.AuthService, validator *utils.Validator, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		authService: authService,
		validator:   validator,
	}
}

// Register creates a new user account.
func (h *AuthHandler) Register(c *gin.Context) {
	req, ok := h.bindCredentials(c)
	if !ok {
		return
	}

	h.LogRequest(c, "registering user", "username", req.Username)

	if err := h.authService.Register(c.Request.Context(), req.Username, req.Password); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MessageResponse{Message: "User registered successfully"})
}

// Login verifies credentials and returns a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	req, ok := h.bindCredentials(c)
	if !ok {
		return
	}

	h.LogRequest(c, "logging in user", "username", req.Username)

	token, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// bindCredentials decodes and sanitizes a credentials payload. The username
// passes through the sanitizer before any other component sees it; the
// password never does, it only ever reaches bcrypt.
func (h *AuthHandler) bindCredentials(c *gin.Context) (CredentialsRequest, bool) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid or missing JSON data"})
		return req, false
	}

	req.Username = utils.SanitizeInput(req.Username)
	if err := h.validator.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Username and password are required"})
		return req, false
	}
	return req, true
}
