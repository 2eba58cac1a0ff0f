package llm

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idea-generator-api/internal/config"
	"idea-generator-api/internal/workflow/port"
)

type stubModel struct{}

func (stubModel) Generate(context.Context, []*schema.Message, ...model.Option) (*schema.Message, error) {
	return schema.AssistantMessage("ok", nil), nil
}

func (stubModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func countingBuilder(n *int32) ChatModelBuilder {
	return func(context.Context, config.ProviderConfig) (model.BaseChatModel, error) {
		atomic.AddInt32(n, 1)
		return stubModel{}, nil
	}
}

func TestGetCachesPerProvider(t *testing.T) {
	var built int32
	f := NewEinoFactoryWithBuilder(&config.LLMConfig{
		DefaultProvider: "gemini",
		Providers: map[string]config.ProviderConfig{
			"gemini": {APIKey: "k", Model: "gemini-1.5-flash"},
		},
	}, countingBuilder(&built))

	m1, err := f.Default(context.Background())
	require.NoError(t, err)
	m2, err := f.Get(context.Background(), "gemini")
	require.NoError(t, err)

	assert.Equal(t, m1, m2)
	assert.EqualValues(t, 1, atomic.LoadInt32(&built))
}

func TestGetMissingCredentialIsNotCached(t *testing.T) {
	var built int32
	cfg := &config.LLMConfig{
		DefaultProvider: "gemini",
		Providers: map[string]config.ProviderConfig{
			"gemini": {APIKey: "   "},
		},
	}
	f := NewEinoFactoryWithBuilder(cfg, countingBuilder(&built))

	_, err := f.Default(context.Background())
	require.ErrorIs(t, err, port.ErrMissingCredential)
	assert.Zero(t, atomic.LoadInt32(&built))
}

func TestGetUnknownProvider(t *testing.T) {
	f := NewEinoFactoryWithBuilder(&config.LLMConfig{}, countingBuilder(new(int32)))

	_, err := f.Get(context.Background(), "other")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "other")
}

func TestCallOptionsCarriesSampling(t *testing.T) {
	opts := CallOptions(config.ProviderConfig{
		Model:       "gemini-1.5-flash",
		MaxTokens:   2048,
		Temperature: 0.8,
		TopP:        0.95,
		TopK:        40,
	})
	require.Len(t, opts, 5)

	common := model.GetCommonOptions(nil, opts...)
	require.NotNil(t, common.Temperature)
	assert.InDelta(t, 0.8, *common.Temperature, 1e-6)
	require.NotNil(t, common.MaxTokens)
	assert.Equal(t, 2048, *common.MaxTokens)
	require.NotNil(t, common.TopP)
	assert.InDelta(t, 0.95, *common.TopP, 1e-6)
	require.NotNil(t, common.Model)
	assert.Equal(t, "gemini-1.5-flash", *common.Model)
}

func TestCallOptionsSkipsUnsetFields(t *testing.T) {
	opts := CallOptions(config.ProviderConfig{Temperature: 0.2})
	assert.Len(t, opts, 1)
}

func TestNewOpenAICompatibleModel(t *testing.T) {
	m, err := NewOpenAICompatibleModel(context.Background(), config.ProviderConfig{
		APIKey:      "k",
		BaseURL:     "http://127.0.0.1:1/v1",
		Model:       "gemini-1.5-flash",
		MaxTokens:   2048,
		Temperature: 0.8,
		TopP:        0.95,
	})
	require.NoError(t, err)
	assert.NotNil(t, m)
}
