package llmfactory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/effective-security/quickai/pkg/llmfactory"
	"github.com/effective-security/quickai/pkg/llms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useFakeLLM(t *testing.T) {
	llmfactory.NewLLM = func(cfg *llmfactory.ProviderConfig, preferredModels ...string) (llms.Model, error) {
		return &fakeLLM{provider: cfg.Name, model: cfg.FindModel(preferredModels...)}, nil
	}
	t.Cleanup(func() {
		llmfactory.NewLLM = llmfactory.CreateLLM
	})
}

func Test_Factory(t *testing.T) {
	t.Setenv("LOVABLE_API_KEY", "fakekey")
	t.Setenv("ANTHROPIC_API_KEY", "fakekey")
	t.Setenv("GOOGLE_API_KEY", "fakekey")

	cfg, err := llmfactory.LoadConfig("testdata/llm.yaml")
	require.NoError(t, err)
	require.Len(t, cfg.Providers, 3)
	assert.Equal(t, "fakekey", cfg.Providers[0].Token)

	useFakeLLM(t)

	f := llmfactory.New(cfg)
	model, err := f.DefaultModel()
	require.NoError(t, err)
	fm := model.(*fakeLLM)
	assert.Equal(t, "google/gemini-2.5-flash", fm.model)
	assert.Equal(t, "LOVABLE", fm.provider)

	model, err = f.ModelByName("google/gemini-2.5-pro")
	require.NoError(t, err)
	fm = model.(*fakeLLM)
	assert.Equal(t, "google/gemini-2.5-pro", fm.model)
	assert.Equal(t, "LOVABLE", fm.provider)

	model, err = f.ModelByName("unknown", "claude-sonnet-4-5")
	require.NoError(t, err)
	fm = model.(*fakeLLM)
	assert.Equal(t, "claude-sonnet-4-5", fm.model)
	assert.Equal(t, "ANTHROPIC", fm.provider)

	// falls back to default
	model, err = f.ModelByName("non-existent-model")
	require.NoError(t, err)
	fm = model.(*fakeLLM)
	assert.Equal(t, "google/gemini-2.5-flash", fm.model)

	model, err = f.ModelByType("GOOGLEAI")
	require.NoError(t, err)
	fm = model.(*fakeLLM)
	assert.Equal(t, "gemini-2.5-flash", fm.model)
	assert.Equal(t, "GOOGLEAI", fm.provider)

	_, err = f.ModelByType("UNSUPPORTED")
	assert.EqualError(t, err, "provider not found for type: UNSUPPORTED")

	model, err = f.ToolModel("analyze-resume")
	require.NoError(t, err)
	assert.Equal(t, "ANTHROPIC", model.(*fakeLLM).provider)

	model, err = f.ToolModel("generate-image")
	require.NoError(t, err)
	fm = model.(*fakeLLM)
	assert.Equal(t, "gemini-2.5-flash-image", fm.model)
	assert.Equal(t, "GOOGLEAI", fm.provider)

	// the default mapping wins over preferred models
	model, err = f.ToolModel("generate-article", "claude-sonnet-4-5")
	require.NoError(t, err)
	fm = model.(*fakeLLM)
	assert.Equal(t, "google/gemini-2.5-flash", fm.model)
	assert.Equal(t, "LOVABLE", fm.provider)
}

func Test_Load(t *testing.T) {
	f, err := llmfactory.Load("testdata/llm.yaml")
	require.NoError(t, err)
	require.NotNil(t, f)

	_, err = llmfactory.Load("testdata/non-existent.yaml")
	require.Error(t, err)
}

func Test_LoadConfig(t *testing.T) {
	cfg, err := llmfactory.LoadConfig("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Providers)

	_, err = llmfactory.LoadConfig("testdata/non-existent.yaml")
	require.Error(t, err)

	_, err = llmfactory.LoadConfig("testdata/invalid.yaml")
	require.Error(t, err)
}

func Test_CreateLLM(t *testing.T) {
	t.Setenv("LOVABLE_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	cfg := &llmfactory.ProviderConfig{
		Name:            "test-provider",
		Token:           "fakekey",
		AvailableModels: []string{"google/gemini-2.5-flash"},
		DefaultModel:    "google/gemini-2.5-flash",
	}

	model, err := llmfactory.CreateLLM(cfg)
	require.NoError(t, err)
	assert.Equal(t, llms.ProviderOpenAI, model.GetProviderType())
	assert.Equal(t, "google/gemini-2.5-flash", model.GetModelName())

	cfg.OpenAI.APIType = "OPEN_AI"
	cfg.OpenAI.BaseURL = "https://custom.gateway.dev/v1"
	cfg.OpenAI.OrgID = "org"
	model, err = llmfactory.CreateLLM(cfg)
	require.NoError(t, err)
	assert.Equal(t, llms.ProviderOpenAI, model.GetProviderType())

	cfg.OpenAI.APIType = "ANTHROPIC"
	cfg.DefaultModel = "claude-sonnet-4-5"
	model, err = llmfactory.CreateLLM(cfg)
	require.NoError(t, err)
	assert.Equal(t, llms.ProviderAnthropic, model.GetProviderType())

	cfg.OpenAI.APIType = "GOOGLEAI"
	cfg.DefaultModel = "gemini-2.5-flash"
	model, err = llmfactory.CreateLLM(cfg)
	require.NoError(t, err)
	assert.Equal(t, llms.ProviderGoogleAI, model.GetProviderType())

	cfg.OpenAI.APIType = "UNSUPPORTED"
	_, err = llmfactory.CreateLLM(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported provider type")

	cfg.OpenAI.APIType = "OPENAI"
	cfg.Token = ""
	_, err = llmfactory.CreateLLM(cfg)
	require.Error(t, err)
}

func Test_ModelCaching(t *testing.T) {
	cfg := &llmfactory.Config{
		Providers: []*llmfactory.ProviderConfig{
			{
				Name:            "OPENAI",
				OpenAI:          llmfactory.OpenAIConfig{APIType: "OPENAI"},
				AvailableModels: []string{"gpt-4o", "gpt-4o-mini"},
				DefaultModel:    "gpt-4o",
			},
		},
	}
	useFakeLLM(t)

	f := llmfactory.New(cfg)

	model1, err := f.ModelByType("OPENAI")
	require.NoError(t, err)
	model2, err := f.ModelByType("OPENAI")
	require.NoError(t, err)
	assert.Same(t, model1, model2)

	model3, err := f.ModelByName("gpt-4o-mini")
	require.NoError(t, err)
	model4, err := f.ModelByName("gpt-4o-mini")
	require.NoError(t, err)
	assert.Same(t, model3, model4)
}

func Test_ConcurrentAccess(t *testing.T) {
	cfg := &llmfactory.Config{
		Providers: []*llmfactory.ProviderConfig{
			{
				Name:            "OPENAI",
				OpenAI:          llmfactory.OpenAIConfig{APIType: "OPENAI"},
				AvailableModels: []string{"gpt-4o", "gpt-4o-mini"},
				DefaultModel:    "gpt-4o",
			},
		},
	}
	useFakeLLM(t)

	f := llmfactory.New(cfg)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			model, err := f.ModelByType("OPENAI")
			assert.NoError(t, err)
			assert.NotNil(t, model)
		}()
		go func() {
			defer wg.Done()
			model, err := f.ToolModel("generate-article", "gpt-4o-mini")
			assert.NoError(t, err)
			assert.NotNil(t, model)
		}()
	}
	wg.Wait()
}

func Test_ProviderConfigFindModel(t *testing.T) {
	cfg := &llmfactory.ProviderConfig{
		AvailableModels: []string{"gpt-4", "gpt-4-mini", "gpt-3.5-turbo"},
		DefaultModel:    "gpt-4",
	}

	assert.Equal(t, "gpt-4-mini", cfg.FindModel("gpt-4-mini"))
	assert.Equal(t, "gpt-4-mini", cfg.FindModel("gpt-4-mini", "gpt-3.5-turbo"))
	assert.Equal(t, "gpt-4", cfg.FindModel("non-existent-model"))
	assert.Equal(t, "gpt-4", cfg.FindModel())

	cfg.AvailableModels = nil
	assert.Equal(t, "gpt-4", cfg.FindModel("gpt-4-mini"))
}

func Test_EmptyConfig(t *testing.T) {
	f := llmfactory.New(&llmfactory.Config{})

	_, err := f.DefaultModel()
	assert.EqualError(t, err, "no providers configured")

	_, err = f.ModelByType("OPENAI")
	assert.EqualError(t, err, "provider not found for type: OPENAI")

	_, err = f.ModelByName("gpt-4")
	assert.EqualError(t, err, "no providers configured")

	_, err = f.ToolModel("generate-article")
	assert.EqualError(t, err, "no providers configured")
}

type fakeLLM struct {
	provider string
	model    string
}

func (f *fakeLLM) GetProviderType() llms.ProviderType {
	return llms.ProviderType(f.provider)
}

func (f *fakeLLM) GetModelName() string {
	return f.model
}

func (f *fakeLLM) GenerateContent(_ context.Context, _ []llms.Message, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	return nil, nil
}
