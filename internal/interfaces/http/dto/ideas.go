package dto

import (
	"time"

	"idea-generator-api/internal/application/ideas"
)

// TimestampLayout 响应时间戳格式（ISO-8601，UTC 毫秒精度）
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// GenerateRequest 创意生成请求
// Topic 为指针以区分缺失与空字符串，非字符串类型在绑定阶段即失败
type GenerateRequest struct {
	Topic *string `json:"topic"`
}

// TopicValue 返回主题，缺失时为空串
func (r *GenerateRequest) TopicValue() string {
	if r == nil || r.Topic == nil {
		return ""
	}
	return *r.Topic
}

// GenerateResponse 创意生成成功响应
type GenerateResponse struct {
	Ideas     string `json:"ideas"`
	Topic     string `json:"topic"`
	Timestamp string `json:"timestamp"`
}

// ToGenerateResponse 转换生成结果
func ToGenerateResponse(res *ideas.Result) *GenerateResponse {
	return &GenerateResponse{
		Ideas:     res.Ideas,
		Topic:     res.Topic,
		Timestamp: res.Timestamp.UTC().Format(TimestampLayout),
	}
}

// ParseTimestamp 解析响应时间戳
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
