package handler

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"

	"blog-backend/internal/domains/user"
	"blog-backend/internal/shared"
	"blog-backend/internal/shared/response"
	"blog-backend/pkg/logger"
)

type UserHandler struct {
	service user.Service
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// ========================================
// AUTHENTICATION ENDPOINTS
// ========================================

// Register handles POST /register/
func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := h.bindAndValidate(c, &req); err != nil {
		return
	}

	dto, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, dto)
}

// Activate handles GET /activate/:code/
func (h *UserHandler) Activate(c *gin.Context) {
	dto, err := h.service.Activate(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// Login handles POST /login/
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := h.bindAndValidate(c, &req); err != nil {
		return
	}

	pair, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, pair)
}

// Refresh handles POST /refresh/
func (h *UserHandler) Refresh(c *gin.Context) {
	var req user.RefreshTokenRequest
	if err := h.bindAndValidate(c, &req); err != nil {
		return
	}

	pair, err := h.service.Refresh(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, pair)
}

// ========================================
// HELPERS
// ========================================

func (h *UserHandler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	var credErr *user.InvalidCredentialsError

	switch {
	case errors.As(err, &verrs):
		response.ValidationFailed(c, verrs)

	case errors.As(err, &credErr):
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeInvalidCredentials,
			"invalid credentials", gin.H{"reason": credErr.Reason})

	case errors.Is(err, user.ErrEmailAlreadyExists):
		response.Duplicate(c, err.Error())

	case errors.Is(err, user.ErrUserNotFound):
		response.NotFound(c, err.Error())

	case errors.Is(err, user.ErrInvalidToken):
		response.Unauthorized(c, err.Error())

	default:
		logger.ErrorWithFields("user request failed", err, map[string]interface{}{
			"path":       c.FullPath(),
			"request_id": c.GetString(shared.ContextRequestID),
		})
		response.InternalServerError(c, "Internal server error")
	}
}

func (h *UserHandler) bindAndValidate(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		response.InvalidBody(c, err)
		return err
	}

	return nil
}
