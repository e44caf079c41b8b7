package handler

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"

	"blog-backend/internal/domains/post"
	"blog-backend/internal/shared"
	"blog-backend/internal/shared/middleware"
	"blog-backend/internal/shared/response"
	"blog-backend/pkg/logger"
)

type PostHandler struct {
	service post.Service
}

func NewPostHandler(service post.Service) *PostHandler {
	return &PostHandler{
		service: service,
	}
}

// ========================================
// PUBLIC ENDPOINTS
// ========================================

// ListPosts handles GET /posts/?category=&tag=&q=&page=&size=
func (h *PostHandler) ListPosts(c *gin.Context) {
	var req post.ListPostsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	page, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, page)
}

// GetPost handles GET /posts/:slug/
func (h *PostHandler) GetPost(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, p)
}

// ========================================
// AUTHOR ENDPOINTS
// ========================================

// CreatePost handles POST /posts/
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req post.CreatePostRequest
	if err := h.bindAndValidate(c, &req); err != nil {
		return
	}

	p, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Location", "/posts/"+p.Slug+"/")
	response.Success(c, http.StatusCreated, p)
}

// UpdatePost handles PATCH /posts/:slug/
func (h *PostHandler) UpdatePost(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req post.UpdatePostRequest
	if err := h.bindAndValidate(c, &req); err != nil {
		return
	}

	p, err := h.service.Update(c.Request.Context(), userID, c.Param("slug"), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, p)
}

// DeletePost handles DELETE /posts/:slug/
func (h *PostHandler) DeletePost(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, c.Param("slug")); err != nil {
		h.handleError(c, err)
		return
	}

	response.NoContent(c)
}

// ========================================
// HELPERS
// ========================================

func (h *PostHandler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors

	switch {
	case errors.As(err, &verrs):
		response.ValidationFailed(c, verrs)

	case errors.Is(err, post.ErrUnknownReference):
		response.ValidationFailed(c, gin.H{"detail": err.Error()})

	case errors.Is(err, post.ErrDuplicateTitle),
		errors.Is(err, post.ErrDuplicateSlug):
		response.Duplicate(c, err.Error())

	case errors.Is(err, post.ErrPostNotFound):
		response.NotFound(c, err.Error())

	case errors.Is(err, post.ErrForbidden):
		response.Forbidden(c, err.Error())

	default:
		logger.ErrorWithFields("post request failed", err, map[string]interface{}{
			"path":       c.FullPath(),
			"request_id": c.GetString(shared.ContextRequestID),
		})
		response.InternalServerError(c, "Internal server error")
	}
}

func (h *PostHandler) bindAndValidate(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		response.InvalidBody(c, err)
		return err
	}

	return nil
}
