package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"idea-generator-api/internal/interfaces/http/web"
)

// PageHandler 单页前端处理器
type PageHandler struct {
	maxTopicLength int
}

// NewPageHandler 创建单页处理器
func NewPageHandler(maxTopicLength int) *PageHandler {
	return &PageHandler{maxTopicLength: maxTopicLength}
}

// Index 返回首页
func (h *PageHandler) Index(c *gin.Context) {
	body, err := web.RenderIndex(web.PageData{MaxTopicLength: h.maxTopicLength})
	if err != nil {
		c.String(http.StatusInternalServerError, "page unavailable")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}
