// Package ideas 实现创意生成用例：校验主题、渲染提示词、调用模型并校验输出
package ideas

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"idea-generator-api/internal/config"
	"idea-generator-api/internal/infrastructure/llm"
	einoobs "idea-generator-api/internal/observability/eino"
	"idea-generator-api/internal/workflow/port"
	workflowprompt "idea-generator-api/internal/workflow/prompt"
	apperrors "idea-generator-api/pkg/errors"
	"idea-generator-api/pkg/logger"
	"idea-generator-api/pkg/metrics"
	"idea-generator-api/pkg/tracer"
)

const workflowName = "idea_generate"

// Result 一次成功生成的结果
type Result struct {
	Ideas     string
	Topic     string
	Timestamp time.Time
}

// Generator 创意生成器，无请求间共享的可变状态
type Generator struct {
	factory port.ChatModelFactory
	prompts *workflowprompt.Registry
	llm     config.LLMConfig
	limits  config.IdeasConfig
	now     func() time.Time
}

// NewGenerator 创建创意生成器
func NewGenerator(cfg *config.Config, factory port.ChatModelFactory, prompts *workflowprompt.Registry) *Generator {
	return &Generator{
		factory: factory,
		prompts: prompts,
		llm:     cfg.LLM,
		limits:  cfg.Ideas,
		now:     time.Now,
	}
}

// MaxTopicLength 返回主题长度上限
func (g *Generator) MaxTopicLength() int {
	return g.limits.MaxTopicLength
}

// ValidateTopic 校验主题：去空白后非空，且字符数不超过上限
func ValidateTopic(topic string, max int) *apperrors.AppError {
	if strings.TrimSpace(topic) == "" {
		return apperrors.ErrTopicRequired
	}
	if utf8.RuneCountInString(topic) > max {
		return apperrors.TopicTooLong(max)
	}
	return nil
}

// Generate 为主题生成创意
//
// 校验顺序：主题为空 -> 主题超长 -> 凭证缺失，任一失败立即返回且不调用模型。
// 模型调用失败返回 UpstreamError；输出为空或过短返回 ModelOutputError。
func (g *Generator) Generate(ctx context.Context, topic string) (result *Result, err error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "ideas.Generate")
	span.SetAttributes(attribute.Int("ideas.topic_len", utf8.RuneCountInString(topic)))
	defer func() {
		outcome := "success"
		if err != nil {
			appErr := apperrors.AsAppError(err)
			outcome = outcomeLabel(appErr.Kind())
			span.SetStatus(codes.Error, string(appErr.Code))
		}
		metrics.IdeaGenerationTotal.WithLabelValues(outcome).Inc()
		metrics.IdeaGenerationDuration.Observe(time.Since(start).Seconds())
		span.End()
	}()

	if appErr := ValidateTopic(topic, g.limits.MaxTopicLength); appErr != nil {
		logger.Warn(ctx, "topic rejected", "reason", appErr.Message, "topic_len", utf8.RuneCountInString(topic))
		return nil, appErr
	}

	providerName, providerCfg, err := g.llm.ActiveProvider()
	if err != nil {
		logger.Error(ctx, "llm provider not resolved", err)
		return nil, apperrors.ErrServiceConfig.WithError(err)
	}
	if !providerCfg.HasCredential() {
		logger.Error(ctx, "llm credential is not configured", port.ErrMissingCredential, "provider", providerName)
		return nil, apperrors.ErrServiceConfig.WithError(port.ErrMissingCredential)
	}

	chatModel, err := g.factory.Get(ctx, providerName)
	if err != nil {
		logger.Error(ctx, "failed to build chat model", err, "provider", providerName)
		return nil, apperrors.ErrServiceConfig.WithError(err)
	}

	msgs, err := g.prompts.Render(ctx, workflowprompt.PromptIdeaBrainstormV1, map[string]any{
		workflowprompt.VarTopic: strings.TrimSpace(topic),
	})
	if err != nil {
		logger.Error(ctx, "failed to render prompt", err)
		return nil, apperrors.ErrInternalError.WithError(err)
	}

	callCtx := einoobs.WithWorkflowProvider(ctx, workflowName, providerName)
	if providerCfg.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(callCtx, providerCfg.Timeout)
		defer cancel()
	}

	out, err := chatModel.Generate(callCtx, msgs, llm.CallOptions(providerCfg)...)
	if err != nil {
		logger.Error(ctx, "error generating ideas", err,
			"provider", providerName,
			"model", providerCfg.Model,
			"deadline_exceeded", errors.Is(err, context.DeadlineExceeded),
		)
		return nil, apperrors.ErrUpstreamFailed.WithError(err)
	}

	text := ""
	if out != nil {
		text = strings.TrimSpace(out.Content)
	}
	if text == "" {
		logger.Error(ctx, "empty or blocked response from model", nil, "provider", providerName)
		return nil, apperrors.ErrEmptyModelOutput
	}
	if n := utf8.RuneCountInString(text); n < g.limits.MinResponseLength {
		logger.Error(ctx, "model response too short", nil, "chars", n, "response", text)
		return nil, apperrors.ErrShortModelOutput.WithDetail(text)
	}

	n := utf8.RuneCountInString(text)
	metrics.IdeaResponseChars.Observe(float64(n))
	span.SetAttributes(attribute.Int("ideas.response_chars", n))
	logger.Info(ctx, "ideas generated", "provider", providerName, "chars", n, "duration_ms", time.Since(start).Milliseconds())

	return &Result{
		Ideas:     text,
		Topic:     topic,
		Timestamp: g.now().UTC(),
	}, nil
}

func outcomeLabel(k apperrors.Kind) string {
	switch k {
	case apperrors.KindInvalidInput:
		return "invalid_input"
	case apperrors.KindConfigurationError:
		return "configuration_error"
	case apperrors.KindModelOutputError:
		return "model_output_error"
	case apperrors.KindUpstreamError:
		return "upstream_error"
	default:
		return "internal_error"
	}
}
