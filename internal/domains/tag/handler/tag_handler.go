package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-backend/internal/domains/tag"
	"blog-backend/internal/shared/response"
	"blog-backend/pkg/logger"
)

type TagHandler struct {
	service tag.Service
}

func NewTagHandler(service tag.Service) *TagHandler {
	return &TagHandler{service: service}
}

// ListTags handles GET /tags/
func (h *TagHandler) ListTags(c *gin.Context) {
	tags, err := h.service.List(c.Request.Context())
	if err != nil {
		logger.Error("list tags failed", err)
		response.InternalServerError(c, "Internal server error")
		return
	}

	response.Success(c, http.StatusOK, tags)
}
