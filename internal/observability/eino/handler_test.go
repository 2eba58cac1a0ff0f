package eino

import (
	"context"
	"errors"
	"testing"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"idea-generator-api/pkg/metrics"
)

func TestContextLabelsDefaultToUnknown(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "unknown", WorkflowFromContext(ctx))
	assert.Equal(t, "unknown", ProviderFromContext(ctx))

	ctx = WithWorkflowProvider(ctx, " idea_generate ", "gemini")
	assert.Equal(t, "idea_generate", WorkflowFromContext(ctx))
	assert.Equal(t, "gemini", ProviderFromContext(ctx))

	assert.Equal(t, ctx, WithWorkflow(ctx, "  "))
}

func TestChatModelHandlerRecordsSuccessAndTokens(t *testing.T) {
	h := newChatModelCallbackHandler()
	ctx := WithWorkflowProvider(context.Background(), "handler_test_ok", "gemini")
	info := &einocb.RunInfo{Name: "idea", Type: "OpenAI"}

	ctx = h.OnStart(ctx, info, &model.CallbackInput{
		Messages: []*schema.Message{schema.UserMessage("hi")},
		Config:   &model.Config{Model: "gemini-1.5-flash"},
	})
	h.OnEnd(ctx, info, &model.CallbackOutput{
		Message:    schema.AssistantMessage("done", nil),
		Config:     &model.Config{Model: "gemini-1.5-flash"},
		TokenUsage: &model.TokenUsage{PromptTokens: 11, CompletionTokens: 7},
	})

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.LLMCallTotal.WithLabelValues("handler_test_ok", "gemini", "gemini-1.5-flash", "success")), 1e-9)
	assert.InDelta(t, 11, testutil.ToFloat64(metrics.LLMTokensUsed.WithLabelValues("handler_test_ok", "gemini", "gemini-1.5-flash", "prompt")), 1e-9)
	assert.InDelta(t, 7, testutil.ToFloat64(metrics.LLMTokensUsed.WithLabelValues("handler_test_ok", "gemini", "gemini-1.5-flash", "completion")), 1e-9)
}

func TestChatModelHandlerRecordsErrorWithStartedModel(t *testing.T) {
	h := newChatModelCallbackHandler()
	ctx := WithWorkflowProvider(context.Background(), "handler_test_err", "gemini")

	ctx = h.OnStart(ctx, nil, &model.CallbackInput{Config: &model.Config{Model: "gemini-1.5-flash"}})
	h.OnError(ctx, nil, errors.New("boom"))

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.LLMCallTotal.WithLabelValues("handler_test_err", "gemini", "gemini-1.5-flash", "error")), 1e-9)
}

func TestHandlerIsUsableAsCallbackHandler(t *testing.T) {
	assert.NotNil(t, Handler())
	assert.NotPanics(t, func() {
		Init()
		Init()
	})
}
