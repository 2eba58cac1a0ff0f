package router

import (
	"idea-generator-api/internal/interfaces/http/handler"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes 注册 /api 路由
func RegisterAPIRoutes(api *gin.RouterGroup, generateHandler *handler.GenerateHandler, rateLimit gin.HandlerFunc) {
	// 创意生成
	api.POST("/generate", rateLimit, generateHandler.Generate)
}
