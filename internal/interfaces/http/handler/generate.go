package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"idea-generator-api/internal/application/ideas"
	"idea-generator-api/internal/interfaces/http/dto"
	apperrors "idea-generator-api/pkg/errors"
	"idea-generator-api/pkg/logger"
)

// IdeaGenerator 创意生成用例
type IdeaGenerator interface {
	Generate(ctx context.Context, topic string) (*ideas.Result, error)
	MaxTopicLength() int
}

// GenerateHandler 创意生成处理器
type GenerateHandler struct {
	generator    IdeaGenerator
	maxBodyBytes int64
}

// NewGenerateHandler 创建创意生成处理器
func NewGenerateHandler(generator IdeaGenerator, maxBodyBytes int64) *GenerateHandler {
	return &GenerateHandler{
		generator:    generator,
		maxBodyBytes: maxBodyBytes,
	}
}

// Generate 生成创意
// @Summary 生成创意
// @Description 根据主题调用模型生成 5 条创意（markdown 文本）
// @Tags Ideas
// @Accept json
// @Produce json
// @Param body body dto.GenerateRequest true "主题"
// @Success 200 {object} dto.GenerateResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/generate [post]
func (h *GenerateHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	if h.maxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	}

	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.Warn(ctx, "request body too large", "limit", tooLarge.Limit)
			dto.Fail(c, apperrors.TopicTooLong(h.generator.MaxTopicLength()))
			return
		}
		logger.Warn(ctx, "invalid generate request body", "error", err.Error())
		dto.Fail(c, apperrors.ErrTopicRequired)
		return
	}

	res, err := h.generator.Generate(ctx, req.TopicValue())
	if err != nil {
		dto.Fail(c, err)
		return
	}

	dto.Success(c, dto.ToGenerateResponse(res))
}
